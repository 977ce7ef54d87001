package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/motormint/motormint/internal/artifact"
	"github.com/motormint/motormint/internal/observability"
	"github.com/motormint/motormint/jobs"
)

// Fetcher is the repository surface the pipeline consumes.
type Fetcher interface {
	GetInspection(ctx context.Context, id int64) (Inspection, error)
	GetTemplate(ctx context.Context) (Template, error)
	ListLeakageItems(ctx context.Context) ([]LeakageItem, error)
	UpdateReportPath(ctx context.Context, id int64, path string, generatedAt time.Time) error
}

// DocumentRenderer converts the view model into PDF bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, data DocumentData) (RenderResult, error)
}

// ArtifactStore persists rendered documents.
type ArtifactStore interface {
	Save(req artifact.SaveRequest) (string, error)
}

// EventSink receives the report-generated event once the artifact and the
// record's path pointer are both durable.
type EventSink interface {
	ReportGenerated(ctx context.Context, payload jobs.ReportGeneratedPayload) error
}

// Service runs the PDI report pipeline: fetch, merge, layout, render,
// persist, notify. Invocations are strictly sequential; concurrent requests
// for the same record race benignly on the final path write (last writer
// wins, regeneration is idempotent in intent).
type Service struct {
	repo     Fetcher
	builder  *Builder
	renderer DocumentRenderer
	store    ArtifactStore
	events   EventSink
	metrics  *observability.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceConfig wires the pipeline dependencies.
type ServiceConfig struct {
	Repo     Fetcher
	Builder  *Builder
	Renderer DocumentRenderer
	Store    ArtifactStore
	Events   EventSink
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// NewService constructs the pipeline service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repo,
		builder:  cfg.Builder,
		renderer: cfg.Renderer,
		store:    cfg.Store,
		events:   cfg.Events,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Generate produces the PDI report artifact for the record and returns its
// served path. ErrInspectionNotFound passes through untouched; every other
// failure wraps into a single generation error and leaves the record's path
// pointer unchanged.
func (s *Service) Generate(ctx context.Context, id int64) (string, error) {
	start := s.now()

	insp, err := s.repo.GetInspection(ctx, id)
	if err != nil {
		if errors.Is(err, ErrInspectionNotFound) {
			return "", err
		}
		return "", s.fail(fmt.Errorf("inspection: generate report %d: %w", id, err))
	}
	tpl, err := s.repo.GetTemplate(ctx)
	if err != nil {
		return "", s.fail(fmt.Errorf("inspection: generate report %d: %w", id, err))
	}
	leakItems, err := s.repo.ListLeakageItems(ctx)
	if err != nil {
		return "", s.fail(fmt.Errorf("inspection: generate report %d: %w", id, err))
	}

	merged := MergeChecklist(tpl, insp.Responses)
	leakage := MergeLeakage(leakItems, insp.Leakages)
	doc := s.builder.Build(insp, merged, leakage)

	rendered, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return "", s.fail(fmt.Errorf("inspection: generate report %d: render: %w", id, err))
	}

	partition := start
	if insp.InspectionDate != nil {
		partition = *insp.InspectionDate
	}
	path, err := s.store.Save(artifact.SaveRequest{
		Partition: partition,
		NameParts: []string{"PDI", fmt.Sprintf("%d", insp.ID), insp.Make, insp.Model},
		Data:      rendered.PDF,
	})
	if err != nil {
		return "", s.fail(fmt.Errorf("inspection: generate report %d: %w", id, err))
	}

	if err := s.repo.UpdateReportPath(ctx, id, path, s.now()); err != nil {
		return "", s.fail(fmt.Errorf("inspection: generate report %d: %w", id, err))
	}

	// Notification delivery is fire-and-forget once the artifact and the path
	// pointer are durable; a queue hiccup must not fail the generation.
	if s.events != nil {
		payload := jobs.ReportGeneratedPayload{
			Kind:         jobs.ReportKindInspection,
			RecordID:     insp.ID,
			RecipientID:  insp.CustomerUserID,
			Reference:    strings.TrimSpace(insp.Make + " " + insp.Model),
			ArtifactPath: path,
		}
		if err := s.events.ReportGenerated(ctx, payload); err != nil && s.logger != nil {
			s.logger.Warn("enqueue report notification", slog.Int64("inspection_id", id), slog.Any("error", err))
		}
	}

	s.metrics.ReportGenerated("pdi", s.now().Sub(start))
	if s.logger != nil {
		s.logger.Info("pdi report generated", slog.Int64("inspection_id", id), slog.String("path", path), slog.Int64("bytes", rendered.Length))
	}
	return path, nil
}

func (s *Service) fail(err error) error {
	s.metrics.ReportFailed("pdi")
	return err
}
