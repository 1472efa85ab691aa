// AngelaMos | 2026
// handler.go

package retention

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/promptvault/internal/core"
)

type PurgeRequest struct {
	Days *int `json:"days"`
}

type PurgeResponse struct {
	OK     bool      `json:"ok"`
	Purged int64     `json:"purged"`
	Cutoff time.Time `json:"cutoff"`
}

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// RegisterRoutes mounts the purge endpoint; the caller's router must
// already be authenticated and admin-gated. limit may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	limit func(http.Handler) http.Handler,
) {
	r.Route("/retention", func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/purge", h.Purge)
	})
}

func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	var req PurgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil &&
		!errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	days := h.service.DefaultDays()
	if req.Days != nil {
		days = *req.Days
	}

	res, err := h.service.Purge(r.Context(), days, h.now())
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

	core.OK(w, PurgeResponse{
		OK:     true,
		Purged: res.Purged,
		Cutoff: res.Cutoff,
	})
}
