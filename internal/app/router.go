package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taller-erp/taller-erp/internal/appliances"
	"github.com/taller-erp/taller-erp/internal/auth"
	"github.com/taller-erp/taller-erp/internal/clients"
	"github.com/taller-erp/taller-erp/internal/observability"
	"github.com/taller-erp/taller-erp/internal/orders"
	"github.com/taller-erp/taller-erp/internal/payments"
	reporthttp "github.com/taller-erp/taller-erp/internal/reports/http"
	"github.com/taller-erp/taller-erp/internal/technicians"
	"github.com/taller-erp/taller-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthHandler        *auth.Handler
	ClientsHandler     *clients.Handler
	AppliancesHandler  *appliances.Handler
	TechniciansHandler *technicians.Handler
	OrdersHandler      *orders.Handler
	PaymentsHandler    *payments.Handler
	ReportsHandler     *reporthttp.Handler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthHandler.RequireAuth)
		r.Route("/clients", params.ClientsHandler.MountRoutes)
		r.Route("/appliances", params.AppliancesHandler.MountRoutes)
		r.Route("/technicians", params.TechniciansHandler.MountRoutes)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/payments", params.PaymentsHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
