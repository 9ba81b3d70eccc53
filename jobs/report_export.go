package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/taller-erp/taller-erp/internal/jobs"
	"github.com/taller-erp/taller-erp/internal/reports"
)

// ReportBuilder computes report payloads for background export.
type ReportBuilder interface {
	WarrantyByTechnician(ctx context.Context) ([]reports.TechnicianWarranty, error)
	ServicesByTechnician(ctx context.Context) ([]reports.TechnicianServices, error)
	ByStatus(ctx context.Context) (*reports.StatusReport, error)
}

// ReportExporter runs queued report exports.
type ReportExporter struct {
	builder ReportBuilder
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewReportExporter constructs the exporter.
func NewReportExporter(builder ReportBuilder, logger *slog.Logger) *ReportExporter {
	return &ReportExporter{builder: builder, logger: logger, metrics: jobmetrics.NewMetrics(nil)}
}

// HandleReportExportTask processes TaskReportExport tasks. The report is
// recomputed so the export pipeline stays warm; an empty report is not a
// failure and must not trigger a retry.
func (e *ReportExporter) HandleReportExportTask(ctx context.Context, t *asynq.Task) error {
	tracker := e.metrics.Track("report_export")
	var payload ReportExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}

	var err error
	var size int
	switch payload.Kind {
	case "warranty":
		var result []reports.TechnicianWarranty
		result, err = e.builder.WarrantyByTechnician(ctx)
		size = len(result)
	case "services":
		var result []reports.TechnicianServices
		result, err = e.builder.ServicesByTechnician(ctx)
		size = len(result)
	case "by_status":
		var result *reports.StatusReport
		result, err = e.builder.ByStatus(ctx)
		if result != nil {
			size = len(result.Data)
		}
	default:
		e.logger.Warn("unknown report kind", slog.String("kind", payload.Kind))
		return tracker.End(asynq.SkipRetry)
	}

	if err != nil {
		if reports.IsNoData(err) {
			e.logger.Info("report export skipped, nothing to export", slog.String("kind", payload.Kind))
			return tracker.End(nil)
		}
		return tracker.End(fmt.Errorf("jobs: export %s: %w", payload.Kind, err))
	}

	e.logger.Info("report export ready", slog.String("kind", payload.Kind), slog.Int("sections", size))
	return tracker.End(nil)
}
