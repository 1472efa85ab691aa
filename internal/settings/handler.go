// AngelaMos | 2026
// handler.go

package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/promptvault/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/config", h.GetPublicConfig)
}

// RegisterAdminRoutes expects r to be authenticated and admin-gated.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/settings", h.Get)
	r.Patch("/settings", h.Update)
}

func (h *Handler) GetPublicConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.PublicConfig(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, cfg)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSettingsResponse(s))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req Patch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	s, err := h.service.Update(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, strings.TrimSuffix(
				err.Error(), ": "+core.ErrInvalidInput.Error(),
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSettingsResponse(s))
}
