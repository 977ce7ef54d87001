package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/motormint/motormint/jobs"
)

// Sweeper runs the scheduled retention sweep over the artifact store.
type Sweeper struct {
	store  *Store
	logger *slog.Logger
	now    func() time.Time
}

// NewSweeper constructs a Sweeper.
func NewSweeper(store *Store, logger *slog.Logger) *Sweeper {
	return &Sweeper{store: store, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Sweeper) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// HandleSweep is the Asynq handler for the retention sweep. Malformed
// payloads are dropped without retry; sweep failures retry.
func (s *Sweeper) HandleSweep(ctx context.Context, task *asynq.Task) error {
	var payload jobs.ArtifactSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("artifact: decode sweep payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("artifact: %v: %w", err, asynq.SkipRetry)
	}

	cutoff := s.now().AddDate(0, 0, -payload.RetentionDays)
	removed, err := s.store.SweepBefore(cutoff)
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("artifact sweep completed",
			slog.Int("removed_partitions", removed),
			slog.Int("retention_days", payload.RetentionDays))
	}
	return nil
}
