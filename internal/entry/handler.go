// AngelaMos | 2026
// handler.go

package entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/promptvault/internal/core"
	"github.com/angelamos/promptvault/internal/middleware"
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
	r.Route("/entries", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Patch("/{entryID}", h.Update)
		r.Delete("/{entryID}", h.SoftDelete)
		r.Post("/{entryID}/restore", h.Restore)
		r.Delete("/{entryID}/hard", h.HardDelete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := QueryParams{
		Query:          q.Get("query"),
		CategoryID:     q.Get("categoryId"),
		SectionID:      q.Get("sectionId"),
		Tag:            q.Get("tag"),
		IncludeDeleted: q.Get("includeDeleted") == "true",
		Take:           ParseTake(q.Get("take")),
	}

	entries, err := h.service.Query(
		r.Context(),
		middleware.GetUserID(r.Context()),
		params,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToListResponse(entries))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, CreatedResponse{ID: id})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "entryID"),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Ack(w)
}

func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	err := h.service.SoftDelete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "entryID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Ack(w)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	err := h.service.Restore(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "entryID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Ack(w)
}

func (h *Handler) HardDelete(w http.ResponseWriter, r *http.Request) {
	err := h.service.HardDelete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "entryID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Ack(w)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "entry")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, validationMessage(err))
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}

// validationMessage strips the operation prefix and sentinel suffix so
// clients see only the field-level reason.
func validationMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+core.ErrInvalidInput.Error())
	for _, op := range []string{"create entry: ", "update entry: "} {
		msg = strings.TrimPrefix(msg, op)
	}
	return msg
}
