package inspection

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/motormint/motormint/internal/platform/httpx"
	"github.com/motormint/motormint/report"
)

// Handler exposes the generate endpoint. Authorization happens upstream; by
// the time a request lands here the caller may view the record.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inspection HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches inspection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{inspectionID}/report", h.generate)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "inspectionID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "inspection id must be a positive integer")
		return
	}
	path, err := h.service.Generate(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInspectionNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "inspection not found")
		case report.IsUnavailable(err):
			httpx.Problem(w, http.StatusServiceUnavailable, "Renderer Unavailable", "report generation failed")
		default:
			h.logger.Error("generate pdi report", slog.Int64("inspection_id", id), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Generation Failed", "report generation failed")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"path": path})
}
