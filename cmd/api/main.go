package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mrp_backend/internal/adapters"
	"mrp_backend/internal/adapters/storage"
	"mrp_backend/internal/clients"
	"mrp_backend/internal/events"
	"mrp_backend/internal/exports"
	apphttp "mrp_backend/internal/http"
	"mrp_backend/internal/http/router"
	"mrp_backend/internal/inventory"
	"mrp_backend/internal/orders"
	"mrp_backend/internal/products"
	"mrp_backend/internal/scheduler"
	"mrp_backend/platform/config"
	"mrp_backend/platform/db"
	"mrp_backend/platform/logger"
	"mrp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	exportScheduler, closeScheduler := initExportScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	inventoryModule := inventory.NewModule(pool, val, log)
	clientsModule := clients.NewModule(pool, val)

	inventoryReader := adapters.NewInventorySnapshotReader(inventoryModule.Service())

	// The products <-> orders wiring is circular at the data level (orders
	// reference products, products count referencing orders on delete), so
	// both sides go through adapters over the other's repository.
	productsModule := products.NewModule(pool, inventoryReader, eventBus, val, log)
	ordersModule := orders.NewModule(
		pool,
		adapters.NewProductInfoReader(productsModule.Repository()),
		clientsModule.Repository(),
		inventoryReader,
		eventBus,
		val,
		log,
	)
	productsModule.SetOrderCounter(adapters.NewReferencingOrderCounter(ordersModule.Repository()))

	modules := []apphttp.Module{
		inventoryModule,
		clientsModule,
		productsModule,
		ordersModule,
	}

	// Snapshot exports need object storage; without it the rest of the
	// workflow still runs.
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketMaterialExports())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err,
				"bucket", cfg.GetMinioBucketMaterialExports())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		log.Info("storage service initialized", "exportsBucket", cfg.GetMinioBucketMaterialExports())

		exportsModule := exports.NewModule(pool, storageSvc, cfg.GetMinioBucketMaterialExports(), log)
		exportsModule.SubscribeEvents(eventBus, exportScheduler)
		modules = append(modules, exportsModule)
	} else {
		log.Warn("MinIO not configured; materials snapshot exports disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initExportScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ExportScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background snapshot exports disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize export scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
