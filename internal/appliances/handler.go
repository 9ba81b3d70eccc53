package appliances

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taller-erp/taller-erp/internal/platform/httpx"
)

// Handler manages appliance catalogue endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers appliance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/brands", h.listBrands)
	r.Post("/brands", h.createBrand)
	r.Get("/types", h.listTypes)
	r.Post("/types", h.createType)
	r.Post("/", h.createClientAppliance)
	r.Get("/{id}", h.getClientAppliance)
	r.Get("/client/{clientID}", h.listByClient)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "electrodoméstico no encontrado")
	case errors.Is(err, ErrDuplicateName):
		httpx.Problem(w, http.StatusConflict, "Duplicate", "nombre ya registrado")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	b, err := h.service.CreateBrand(r.Context(), req)
	if err != nil {
		h.respondError(w, "create brand", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBrands(r.Context())
	if err != nil {
		h.respondError(w, "list brands", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createType(w http.ResponseWriter, r *http.Request) {
	var req CreateTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	t, err := h.service.CreateType(r.Context(), req)
	if err != nil {
		h.respondError(w, "create type", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

func (h *Handler) listTypes(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListTypes(r.Context())
	if err != nil {
		h.respondError(w, "list types", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createClientAppliance(w http.ResponseWriter, r *http.Request) {
	var req CreateClientApplianceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	a, err := h.service.CreateClientAppliance(r.Context(), req)
	if err != nil {
		h.respondError(w, "create client appliance", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) getClientAppliance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be numeric")
		return
	}
	a, err := h.service.GetClientAppliance(r.Context(), id)
	if err != nil {
		h.respondError(w, "get client appliance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(chi.URLParam(r, "clientID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "client id must be numeric")
		return
	}
	list, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "list client appliances", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
