package claims

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/motormint/motormint/internal/artifact"
	"github.com/motormint/motormint/internal/observability"
	"github.com/motormint/motormint/jobs"
)

// Fetcher is the repository surface the pipeline consumes.
type Fetcher interface {
	GetClaim(ctx context.Context, id int64) (Claim, error)
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

// Service runs the claim report pipeline.
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

// Generate produces the claim report artifact and returns its served path.
// Claim reports partition by generation date; ErrClaimNotFound passes
// through untouched.
func (s *Service) Generate(ctx context.Context, id int64) (string, error) {
	start := s.now()

	claim, err := s.repo.GetClaim(ctx, id)
	if err != nil {
		if errors.Is(err, ErrClaimNotFound) {
			return "", err
		}
		return "", s.fail(fmt.Errorf("claims: generate report %d: %w", id, err))
	}

	doc := s.builder.Build(claim)
	rendered, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return "", s.fail(fmt.Errorf("claims: generate report %d: render: %w", id, err))
	}

	path, err := s.store.Save(artifact.SaveRequest{
		Partition: start,
		NameParts: []string{claim.ClaimNumber, claim.Make, claim.Model},
		Data:      rendered.PDF,
	})
	if err != nil {
		return "", s.fail(fmt.Errorf("claims: generate report %d: %w", id, err))
	}

	if err := s.repo.UpdateReportPath(ctx, id, path, s.now()); err != nil {
		return "", s.fail(fmt.Errorf("claims: generate report %d: %w", id, err))
	}

	if s.events != nil {
		payload := jobs.ReportGeneratedPayload{
			Kind:         jobs.ReportKindClaim,
			RecordID:     claim.ID,
			RecipientID:  claim.UserID,
			Reference:    claim.ClaimNumber,
			ArtifactPath: path,
		}
		if err := s.events.ReportGenerated(ctx, payload); err != nil && s.logger != nil {
			s.logger.Warn("enqueue report notification", slog.Int64("claim_id", id), slog.Any("error", err))
		}
	}

	s.metrics.ReportGenerated("claim", s.now().Sub(start))
	if s.logger != nil {
		s.logger.Info("claim report generated", slog.Int64("claim_id", id), slog.String("path", path), slog.Int64("bytes", rendered.Length))
	}
	return path, nil
}

func (s *Service) fail(err error) error {
	s.metrics.ReportFailed("claim")
	return err
}
