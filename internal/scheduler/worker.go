package scheduler

import (
	"context"
	"fmt"

	"mrp_backend/platform/config"
	"mrp_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// SnapshotExporter rebuilds and uploads the materials snapshot artifact.
// Implemented by the exports service.
type SnapshotExporter interface {
	ExportMaterialsSnapshot(ctx context.Context) (string, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	exporter SnapshotExporter
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, exporter SnapshotExporter, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		exporter: exporter,
		log:      log,
	}

	mux.HandleFunc(TaskMaterialsSnapshotExport, w.handleMaterialsSnapshotExport)

	return w, nil
}

// handleMaterialsSnapshotExport rebuilds the artifact. Errors are returned to
// asynq so the task is retried with backoff.
func (w *Worker) handleMaterialsSnapshotExport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseMaterialsSnapshotExportPayload(task)
	if err != nil {
		return err
	}

	key, err := w.exporter.ExportMaterialsSnapshot(ctx)
	if err != nil {
		w.log.Error("materials snapshot export failed",
			"trigger", payload.Trigger, "error", err)
		return err
	}

	w.log.Info("materials snapshot exported",
		"trigger", payload.Trigger, "objectKey", key)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
