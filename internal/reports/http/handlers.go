package reporthttp

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taller-erp/taller-erp/internal/platform/httpx"
	"github.com/taller-erp/taller-erp/internal/reports"
)

// ReportService exposes the report computations consumed by the handler.
type ReportService interface {
	WarrantyByTechnician(ctx context.Context) ([]reports.TechnicianWarranty, error)
	ServicesByTechnician(ctx context.Context) ([]reports.TechnicianServices, error)
	ByStatus(ctx context.Context) (*reports.StatusReport, error)
	Financials(ctx context.Context) (reports.Financials, error)
}

// PDFRenderer converts HTML into PDF bytes via the external document
// rendering collaborator.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ExportEnqueuer queues an asynchronous export job.
type ExportEnqueuer interface {
	EnqueueReportExport(ctx context.Context, kind string) (string, error)
}

// Handler serves the reporting endpoints.
type Handler struct {
	logger   *slog.Logger
	service  ReportService
	pdf      PDFRenderer
	enqueuer ExportEnqueuer
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService, pdf PDFRenderer, enqueuer ExportEnqueuer) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf, enqueuer: enqueuer}
}

// Summary is the combined payload served by the dashboard endpoint.
type Summary struct {
	Warranty   []reports.TechnicianWarranty `json:"warranty"`
	Services   []reports.TechnicianServices `json:"services"`
	ByStatus   *reports.StatusReport        `json:"by_status"`
	Financials reports.Financials           `json:"financials"`
}

// GetWarrantyByTechnician serves the warranty report.
func (h *Handler) GetWarrantyByTechnician(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.WarrantyByTechnician(r.Context())
	if err != nil {
		h.respondReportError(w, "warranty report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// GetServicesByTechnician serves the all-orders services report.
func (h *Handler) GetServicesByTechnician(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ServicesByTechnician(r.Context())
	if err != nil {
		h.respondReportError(w, "services report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// GetByStatus serves the status/technician grouped report.
func (h *Handler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ByStatus(r.Context())
	if err != nil {
		h.respondReportError(w, "status report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// GetSummary fans out the independent report computations concurrently and
// responds once all of them resolve. Empty sub-reports come back as empty
// sections rather than failing the whole summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	var summary Summary

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		result, err := h.service.WarrantyByTechnician(ctx)
		if err != nil && !reports.IsNoData(err) {
			return err
		}
		summary.Warranty = result
		return nil
	})

	g.Go(func() error {
		result, err := h.service.ServicesByTechnician(ctx)
		if err != nil && !reports.IsNoData(err) {
			return err
		}
		summary.Services = result
		return nil
	})

	g.Go(func() error {
		result, err := h.service.ByStatus(ctx)
		if err != nil && !reports.IsNoData(err) {
			return err
		}
		summary.ByStatus = result
		return nil
	})

	g.Go(func() error {
		result, err := h.service.Financials(ctx)
		if err != nil {
			return err
		}
		summary.Financials = result
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("build report summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// Export renders the named report as PDF. With async=1 the export is queued
// instead and the job ID returned.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = "by_status"
	}

	if r.URL.Query().Get("async") == "1" {
		if h.enqueuer == nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Export Unavailable", "background export is not configured")
			return
		}
		jobID, err := h.enqueuer.EnqueueReportExport(r.Context(), kind)
		if err != nil {
			h.logger.Error("enqueue report export", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
		return
	}

	html, err := h.renderExportHTML(r.Context(), kind)
	if err != nil {
		h.respondReportError(w, "export "+kind, err)
		return
	}

	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render pdf", slog.String("kind", kind), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "document renderer unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=reporte-%s.pdf", kind))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) renderExportHTML(ctx context.Context, kind string) (string, error) {
	switch kind {
	case "warranty":
		result, err := h.service.WarrantyByTechnician(ctx)
		if err != nil {
			return "", err
		}
		return renderWarrantyHTML(result)
	case "services":
		result, err := h.service.ServicesByTechnician(ctx)
		if err != nil {
			return "", err
		}
		return renderServicesHTML(result)
	case "by_status":
		result, err := h.service.ByStatus(ctx)
		if err != nil {
			return "", err
		}
		return renderStatusHTML(result)
	default:
		return "", fmt.Errorf("%w: unknown report kind %q", errUnknownKind, kind)
	}
}

var errUnknownKind = errors.New("reports: unknown kind")

func (h *Handler) respondReportError(w http.ResponseWriter, op string, err error) {
	switch {
	case reports.IsNoData(err):
		httpx.Problem(w, http.StatusNotFound, "Nothing To Export", "no hay datos para mostrar")
	case errors.Is(err, errUnknownKind):
		httpx.Problem(w, http.StatusBadRequest, "Unknown Report", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

var exportTmpl = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}
<h2>{{.Heading}}</h2>
<table border="1" cellspacing="0" cellpadding="4">
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}
</body>
</html>`))

type exportSection struct {
	Heading string
	Rows    [][]string
}

type exportDoc struct {
	Title    string
	Sections []exportSection
}

func renderDoc(doc exportDoc) (string, error) {
	var sb strings.Builder
	if err := exportTmpl.Execute(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderWarrantyHTML(result []reports.TechnicianWarranty) (string, error) {
	doc := exportDoc{Title: "Garantías por técnico"}
	for _, bucket := range result {
		section := exportSection{
			Heading: fmt.Sprintf("%s (%d)", bucket.Name, bucket.WarrantyCount),
		}
		for _, o := range bucket.WarrantyOrders {
			section.Rows = append(section.Rows, []string{
				o.OrderNumber, o.Falla, string(o.Priority), o.ClientName, o.ClientPhone, o.ApplianceName, o.BrandName,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return renderDoc(doc)
}

func renderServicesHTML(result []reports.TechnicianServices) (string, error) {
	doc := exportDoc{Title: "Servicios por técnico"}
	for _, bucket := range result {
		section := exportSection{
			Heading: fmt.Sprintf("%s (%d)", bucket.Name, bucket.TotalServices),
		}
		for _, o := range bucket.Services {
			section.Rows = append(section.Rows, []string{
				o.OrderNumber, string(o.Status), o.Falla, o.ClientName, o.ReceivedDate.Format("2006-01-02"), string(o.PaymentStatus),
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return renderDoc(doc)
}

func renderStatusHTML(result *reports.StatusReport) (string, error) {
	doc := exportDoc{Title: fmt.Sprintf("Servicios por estado (%d en total)", result.TotalServices)}
	for _, group := range result.Data {
		section := exportSection{Heading: string(group.Status)}
		for _, tech := range group.Technicians {
			for _, o := range tech.Services {
				section.Rows = append(section.Rows, []string{
					tech.Name, o.OrderNumber, o.Client.Name, o.ReceivedDate.Format("2006-01-02"),
				})
			}
		}
		doc.Sections = append(doc.Sections, section)
	}
	return renderDoc(doc)
}
