package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/motormint/motormint/jobs"
)

func seedPartition(t *testing.T, root, day string) {
	t.Helper()
	dir := filepath.Join(root, day)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("%PDF-stub"), 0o644))
}

func TestSweepBeforeRemovesOldPartitions(t *testing.T) {
	root := t.TempDir()
	seedPartition(t, root, "2026-01-01")
	seedPartition(t, root, "2026-02-01")
	seedPartition(t, root, "2026-03-01")
	// Non-partition content is never touched.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "archive"), 0o755))

	store := NewStore(root)
	removed, err := store.SweepBefore(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	require.NoDirExists(t, filepath.Join(root, "2026-01-01"))
	require.NoDirExists(t, filepath.Join(root, "2026-02-01"))
	require.DirExists(t, filepath.Join(root, "2026-03-01"))
	require.DirExists(t, filepath.Join(root, "archive"))
}

func TestSweepBeforeMissingRoot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))
	removed, err := store.SweepBefore(time.Now())
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestSweeperHandleSweep(t *testing.T) {
	root := t.TempDir()
	seedPartition(t, root, "2025-12-01")
	seedPartition(t, root, "2026-08-01")

	sweeper := NewSweeper(NewStore(root), slog.Default())
	sweeper.WithNow(func() time.Time { return time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC) })

	task, err := jobs.NewArtifactSweepTask(180)
	require.NoError(t, err)
	require.NoError(t, sweeper.HandleSweep(context.Background(), task))

	require.NoDirExists(t, filepath.Join(root, "2025-12-01"))
	require.DirExists(t, filepath.Join(root, "2026-08-01"))
}

func TestSweeperMalformedPayloadSkipsRetry(t *testing.T) {
	sweeper := NewSweeper(NewStore(t.TempDir()), slog.Default())
	task := asynq.NewTask(jobs.TaskArtifactSweep, []byte("not json"))

	err := sweeper.HandleSweep(context.Background(), task)
	require.Error(t, err)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
