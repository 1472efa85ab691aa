// AngelaMos | 2026
// handler.go

package category

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/categories", h.List)
}

// RegisterAdminRoutes expects r to be authenticated and admin-gated.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.CreateCategory)
		r.Patch("/{categoryID}", h.RenameCategory)
		r.Delete("/{categoryID}", h.DeleteCategory)
		r.Post("/{categoryID}/sections", h.CreateSection)
	})

	r.Route("/sections", func(r chi.Router) {
		r.Patch("/{sectionID}", h.UpdateSection)
		r.Delete("/{sectionID}", h.DeleteSection)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(categories))
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, err, "category")
		return
	}

	core.Created(w, CreatedResponse{ID: id})
}

func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.RenameCategory(r.Context(), chi.URLParam(r, "categoryID"), req.Name)
	if err != nil {
		writeError(w, err, "category")
		return
	}

	core.Ack(w)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, err, "category")
		return
	}

	core.Ack(w)
}

func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req CreateSectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.service.CreateSection(
		r.Context(),
		chi.URLParam(r, "categoryID"),
		req.Name,
		req.SortOrder,
	)
	if err != nil {
		writeError(w, err, "category")
		return
	}

	core.Created(w, CreatedResponse{ID: id})
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req UpdateSectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.UpdateSection(r.Context(), chi.URLParam(r, "sectionID"), req)
	if err != nil {
		writeError(w, err, "section")
		return
	}

	core.Ack(w)
}

func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteSection(r.Context(), chi.URLParam(r, "sectionID"))
	if err != nil {
		writeError(w, err, "section")
		return
	}

	core.Ack(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "category is still referenced by entries")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, strings.TrimSuffix(
			err.Error(), ": "+core.ErrInvalidInput.Error(),
		))
	default:
		core.InternalServerError(w, err)
	}
}
