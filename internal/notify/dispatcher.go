package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/motormint/motormint/internal/jobs"
	"github.com/motormint/motormint/jobs"
)

// Inserter is the persistence surface the dispatcher writes through.
type Inserter interface {
	Insert(ctx context.Context, n Notification) error
}

// UnreadCounter bumps the recipient's unread badge.
type UnreadCounter interface {
	Increment(ctx context.Context, userID int64) error
}

// Dispatcher consumes report-generated events and materialises them as
// notifications. The counter is best effort; the row insert is not.
type Dispatcher struct {
	repo    Inserter
	counter UnreadCounter
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
	now     func() time.Time
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(repo Inserter, counter UnreadCounter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, counter: counter, logger: logger, now: time.Now}
}

// WithMetrics attaches job instrumentation.
func (d *Dispatcher) WithMetrics(m *jobmetrics.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// WithNow overrides the clock for deterministic tests.
func (d *Dispatcher) WithNow(now func() time.Time) {
	if now != nil {
		d.now = now
	}
}

// HandleReportGenerated is the Asynq handler for report-generated tasks.
// Malformed payloads are dropped without retry; insert failures are
// returned so Asynq retries them.
func (d *Dispatcher) HandleReportGenerated(ctx context.Context, task *asynq.Task) error {
	tracker := d.metrics.Track(jobs.TaskReportGenerated)
	return tracker.End(d.handleReportGenerated(ctx, task))
}

func (d *Dispatcher) handleReportGenerated(ctx context.Context, task *asynq.Task) error {
	var payload jobs.ReportGeneratedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("notify: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("notify: %v: %w", err, asynq.SkipRetry)
	}

	n := d.build(payload)
	if err := d.repo.Insert(ctx, n); err != nil {
		return err
	}
	if d.counter != nil {
		if err := d.counter.Increment(ctx, payload.RecipientID); err != nil && d.logger != nil {
			d.logger.Warn("bump unread counter",
				slog.Int64("recipient_id", payload.RecipientID),
				slog.Any("error", err))
		}
	}
	if d.logger != nil {
		d.logger.Info("report notification delivered",
			slog.String("kind", string(payload.Kind)),
			slog.Int64("record_id", payload.RecordID),
			slog.Int64("recipient_id", payload.RecipientID))
	}
	return nil
}

func (d *Dispatcher) build(p jobs.ReportGeneratedPayload) Notification {
	n := Notification{
		ID:          uuid.New(),
		RecipientID: p.RecipientID,
		Category:    CategoryReport,
		CreatedAt:   d.now(),
	}
	switch p.Kind {
	case jobs.ReportKindClaim:
		n.Title = "Claim report ready"
		n.Message = fmt.Sprintf("The report for claim %s is ready to download.", p.Reference)
		n.Link = fmt.Sprintf("/claims/%d", p.RecordID)
	default:
		n.Title = "Inspection report ready"
		n.Message = fmt.Sprintf("The inspection report %s is ready to download.", p.Reference)
		n.Link = fmt.Sprintf("/admin/inspections/%d", p.RecordID)
	}
	return n
}
