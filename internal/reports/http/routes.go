package reporthttp

import "github.com/go-chi/chi/v5"

// MountRoutes registers reporting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.GetSummary)
	r.Get("/warranty-by-technician", h.GetWarrantyByTechnician)
	r.Get("/services-by-technician", h.GetServicesByTechnician)
	r.Get("/by-status", h.GetByStatus)
	r.Post("/export", h.Export)
}
