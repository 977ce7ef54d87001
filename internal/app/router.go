package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/motormint/motormint/internal/claims"
	"github.com/motormint/motormint/internal/inspection"
	"github.com/motormint/motormint/internal/observability"
	"github.com/motormint/motormint/jobs"
	"github.com/motormint/motormint/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	InspectionHandler *inspection.Handler
	ClaimsHandler     *claims.Handler
	ReportHandler     *report.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
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

	if params.InspectionHandler != nil {
		r.Route("/inspections", params.InspectionHandler.MountRoutes)
	}
	if params.ClaimsHandler != nil {
		r.Route("/claims", params.ClaimsHandler.MountRoutes)
	}
	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Generated PDFs are served straight from the artifact store directory.
	if params.Config != nil && params.Config.ReportStorageDir != "" {
		fileServer := http.StripPrefix("/reports/", http.FileServer(http.Dir(params.Config.ReportStorageDir)))
		r.Handle("/reports/*", reportCacheHandler(fileServer))
	}

	return r
}

// reportCacheHandler keeps generated reports out of shared caches; the same
// logical path can be overwritten by regeneration.
func reportCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "private, no-cache")
		next.ServeHTTP(w, r)
	})
}
