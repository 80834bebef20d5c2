package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "default" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(testSchedulerConfig{})
	if err == nil {
		t.Fatal("NewClient() with empty redis url, want error")
	}
}

func TestEnqueueMaterialsSnapshotExport(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	err = client.EnqueueMaterialsSnapshotExport(context.Background(),
		MaterialsSnapshotExportPayload{Trigger: "products.product.created"})
	if err != nil {
		t.Fatalf("EnqueueMaterialsSnapshotExport() error = %v", err)
	}

	// asynq stores pending tasks under its own key namespace.
	found := false
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, "asynq:") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no asynq keys in redis after enqueue, keys = %v", mr.Keys())
	}
}

func TestTaskPayloadRoundTrip(t *testing.T) {
	task, err := NewMaterialsSnapshotExportTask(MaterialsSnapshotExportPayload{Trigger: "manual"})
	if err != nil {
		t.Fatalf("NewMaterialsSnapshotExportTask() error = %v", err)
	}
	if task.Type() != TaskMaterialsSnapshotExport {
		t.Errorf("task type = %q, want %q", task.Type(), TaskMaterialsSnapshotExport)
	}

	payload, err := ParseMaterialsSnapshotExportPayload(task)
	if err != nil {
		t.Fatalf("ParseMaterialsSnapshotExportPayload() error = %v", err)
	}
	if payload.Trigger != "manual" {
		t.Errorf("Trigger = %q, want manual", payload.Trigger)
	}
}
