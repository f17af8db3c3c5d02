package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/casavia/casavia/internal/app"
	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/observability"
	"github.com/casavia/casavia/internal/platform/db"
	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/jobs"
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	blobs, err := storage.New(cfg.StorageConfig())
	if err != nil {
		logger.Error("init blob storage", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	sweeper := jobs.NewBlobSweeper(jobs.NewBlobReferences(pool), blobs, logger, metrics)
	purger := jobs.NewSessionPurger(auth.NewRepository(pool), logger, metrics)

	sweepTask, err := jobs.NewBlobSweepTask(time.Now())
	if err != nil {
		logger.Error("build blob sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	purgeTask, err := jobs.NewSessionPurgeTask(time.Now())
	if err != nil {
		logger.Error("build session purge task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBlobSweep, Handler: sweeper.Handle},
			{Type: jobs.TaskSessionPurge, Handler: purger.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 2 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 3 * * *", Task: purgeTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
