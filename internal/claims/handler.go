package claims

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/motormint/motormint/internal/platform/httpx"
	"github.com/motormint/motormint/report"
)

// Handler exposes the generate endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the claims HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches claim routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{claimID}/report", h.generate)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "claimID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "claim id must be a positive integer")
		return
	}
	path, err := h.service.Generate(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrClaimNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "claim not found")
		case report.IsUnavailable(err):
			httpx.Problem(w, http.StatusServiceUnavailable, "Renderer Unavailable", "report generation failed")
		default:
			h.logger.Error("generate claim report", slog.Int64("claim_id", id), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Generation Failed", "report generation failed")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"path": path})
}
