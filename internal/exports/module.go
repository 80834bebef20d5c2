// Package exports maintains the materials snapshot artifact: a JSON document
// of every product's bill of materials, rebuilt after product mutations and
// written to object storage.
package exports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mrp_backend/internal/adapters/storage"
	"mrp_backend/internal/events"
	apphttp "mrp_backend/internal/http"
	"mrp_backend/internal/scheduler"
	"mrp_backend/platform/logger"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
	log     *logger.Logger
}

// NewModule creates and initializes the exports module.
func NewModule(pool *pgxpool.Pool, store storage.StorageService, bucket string, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, store, bucket, log)

	return &Module{
		handler: NewHandler(svc),
		service: svc,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// Service returns the exports service for the background worker.
func (m *Module) Service() *Service {
	return m.service
}

// SubscribeEvents wires product mutations to snapshot rebuilds. The rebuild
// itself runs in the background worker; here we only enqueue. An enqueue
// failure is logged and swallowed: the snapshot is an export artifact, and a
// stale copy must never fail the product mutation that triggered it.
func (m *Module) SubscribeEvents(bus events.Bus, sched scheduler.ExportScheduler) {
	if sched == nil {
		m.log.Warn("exports: no scheduler configured, snapshot rebuilds disabled")
		return
	}

	enqueue := func(ctx context.Context, event events.Event) error {
		err := sched.EnqueueMaterialsSnapshotExport(ctx, scheduler.MaterialsSnapshotExportPayload{
			Trigger: event.EventName(),
		})
		if err != nil {
			m.log.Error("exports: enqueue snapshot rebuild failed",
				"trigger", event.EventName(), "error", err)
		}
		return nil
	}

	bus.Subscribe(events.ProductCreated{}.EventName(), events.HandlerFunc(enqueue))
	bus.Subscribe(events.ProductMaterialsChanged{}.EventName(), events.HandlerFunc(enqueue))
	bus.Subscribe(events.ProductStatusChanged{}.EventName(), events.HandlerFunc(enqueue))
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/exports")
	adminGroup.POST("/materials-snapshot", m.handler.HandleTriggerExport)
	adminGroup.GET("/materials-snapshot/url", m.handler.HandleDownloadURL)
}

var _ apphttp.Module = (*Module)(nil)
