package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/motormint/motormint/internal/app"
	"github.com/motormint/motormint/internal/artifact"
	jobmetrics "github.com/motormint/motormint/internal/jobs"
	"github.com/motormint/motormint/internal/notify"
	"github.com/motormint/motormint/internal/platform/cache"
	"github.com/motormint/motormint/internal/platform/db"
	"github.com/motormint/motormint/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dispatcher := notify.NewDispatcher(
		notify.NewRepository(pool),
		notify.NewCounter(redisClient),
		logger,
	).WithMetrics(jobmetrics.NewMetrics(nil))

	sweeper := artifact.NewSweeper(artifact.NewStore(cfg.ReportStorageDir), logger)
	sweepTask, err := jobs.NewArtifactSweepTask(cfg.ReportRetentionDays)
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportGenerated, Handler: dispatcher.HandleReportGenerated},
			{Type: jobs.TaskArtifactSweep, Handler: sweeper.HandleSweep},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
