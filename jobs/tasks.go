package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportExport renders a report to PDF in the background.
	TaskReportExport = "report:export"
	// TaskWarrantyScan looks for warranties about to expire.
	TaskWarrantyScan = "warranty:scan"
)

// ReportExportPayload names the report to export.
type ReportExportPayload struct {
	Kind string `json:"kind"`
}

// NewReportExportTask constructs an Asynq task.
func NewReportExportTask(payload ReportExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, data), nil
}

// NewWarrantyScanTask constructs the periodic warranty scan task.
func NewWarrantyScanTask() *asynq.Task {
	return asynq.NewTask(TaskWarrantyScan, nil)
}

// Enqueuer submits background tasks through an Asynq client.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer wraps an Asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueReportExport queues a report export and returns the task ID.
func (e *Enqueuer) EnqueueReportExport(ctx context.Context, kind string) (string, error) {
	task, err := NewReportExportTask(ReportExportPayload{Kind: kind})
	if err != nil {
		return "", err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	if err != nil {
		return "", fmt.Errorf("jobs: enqueue report export: %w", err)
	}
	return info.ID, nil
}
