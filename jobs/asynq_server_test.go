package jobs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerRegistersCronEntries(t *testing.T) {
	sweepTask, err := NewArtifactSweepTask(30)
	require.NoError(t, err)

	worker, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Logger:    slog.Default(),
		Handlers: []TaskHandler{
			{Type: TaskArtifactSweep, Handler: func(context.Context, *asynq.Task) error { return nil }},
		},
		Cron: []CronRegistration{
			{Spec: "0 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, worker.scheduler)
}

func TestNewWorkerRejectsBadCronSpec(t *testing.T) {
	sweepTask, err := NewArtifactSweepTask(30)
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Cron: []CronRegistration{
			{Spec: "not a cron spec", Task: sweepTask},
		},
	})
	require.Error(t, err)
}

func TestNewWorkerSkipsEmptyCronEntries(t *testing.T) {
	worker, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Cron: []CronRegistration{
			{Spec: "", Task: nil},
		},
	})
	require.NoError(t, err)
	require.Nil(t, worker.scheduler)
}

func TestArtifactSweepPayloadValidation(t *testing.T) {
	_, err := NewArtifactSweepTask(0)
	require.Error(t, err)

	task, err := NewArtifactSweepTask(90)
	require.NoError(t, err)
	require.Equal(t, TaskArtifactSweep, task.Type())
}
