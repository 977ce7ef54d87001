package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/motormint/motormint/internal/app"
	"github.com/motormint/motormint/internal/artifact"
	"github.com/motormint/motormint/internal/assets"
	"github.com/motormint/motormint/internal/claims"
	"github.com/motormint/motormint/internal/inspection"
	"github.com/motormint/motormint/internal/observability"
	"github.com/motormint/motormint/internal/platform/db"
	"github.com/motormint/motormint/jobs"
	"github.com/motormint/motormint/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	metrics := observability.NewMetrics()

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportHandler := report.NewHandler(reportClient, logger)

	assetProvider := assets.NewDiskProvider(cfg.AssetDir, logger)
	artifactStore := artifact.NewStore(cfg.ReportStorageDir)

	eventClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := eventClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	inspectionRenderer, err := inspection.NewRenderer(reportClient)
	if err != nil {
		logger.Error("init inspection renderer", slog.Any("error", err))
		os.Exit(1)
	}
	inspectionService := inspection.NewService(inspection.ServiceConfig{
		Repo:     inspection.NewRepository(dbpool, logger),
		Builder:  inspection.NewBuilder(assetProvider, cfg.UploadDir, logger),
		Renderer: inspectionRenderer,
		Store:    artifactStore,
		Events:   eventClient,
		Metrics:  metrics,
		Logger:   logger,
	})
	inspectionHandler := inspection.NewHandler(logger, inspectionService)

	claimRenderer, err := claims.NewRenderer(reportClient)
	if err != nil {
		logger.Error("init claim renderer", slog.Any("error", err))
		os.Exit(1)
	}
	claimService := claims.NewService(claims.ServiceConfig{
		Repo:     claims.NewRepository(dbpool),
		Builder:  claims.NewBuilder(assetProvider, cfg.UploadDir, logger),
		Renderer: claimRenderer,
		Store:    artifactStore,
		Events:   eventClient,
		Metrics:  metrics,
		Logger:   logger,
	})
	claimsHandler := claims.NewHandler(logger, claimService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		InspectionHandler: inspectionHandler,
		ClaimsHandler:     claimsHandler,
		ReportHandler:     reportHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
