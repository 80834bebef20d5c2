package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskMaterialsSnapshotExport = "exports.materials_snapshot"

// MaterialsSnapshotExportPayload identifies what triggered a snapshot export.
// The export itself is always a full rebuild, so the payload is informational.
type MaterialsSnapshotExportPayload struct {
	Trigger string `json:"trigger"`
}

func NewMaterialsSnapshotExportTask(payload MaterialsSnapshotExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMaterialsSnapshotExport, data), nil
}

func ParseMaterialsSnapshotExportPayload(task *asynq.Task) (MaterialsSnapshotExportPayload, error) {
	var payload MaterialsSnapshotExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MaterialsSnapshotExportPayload{}, err
	}
	return payload, nil
}
