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

	"github.com/casavia/casavia/internal/app"
	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/cards"
	"github.com/casavia/casavia/internal/observability"
	"github.com/casavia/casavia/internal/platform/cache"
	"github.com/casavia/casavia/internal/platform/db"
	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/properties"
	"github.com/casavia/casavia/internal/rbac"
	"github.com/casavia/casavia/internal/shared"
	"github.com/casavia/casavia/internal/users"
	"github.com/casavia/casavia/jobs"
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

	blobs, err := storage.New(cfg.StorageConfig())
	if err != nil {
		logger.Error("init blob storage", slog.Any("error", err))
		os.Exit(1)
	}

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionTTL)
	auditLogger := shared.NewAuditLogger(dbpool)

	rbacRepo := rbac.NewRepository(dbpool)
	rbacService := rbac.NewService(rbacRepo)
	rbacMiddleware := &rbac.Middleware{Service: rbacService, Logger: logger}

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, blobs, logger)
	usersHandler := users.NewHandler(logger, usersService, blobs)

	cardsRepo := cards.NewRepository(dbpool)
	cardsService := cards.NewService(cardsRepo, auditLogger, logger)
	cardsHandler := cards.NewHandler(logger, cardsService)

	propertiesRepo := properties.NewRepository(dbpool)
	propertiesService := properties.NewService(propertiesRepo, rbacService, blobs, auditLogger, logger)
	propertiesHandler := properties.NewHandler(logger, propertiesService, blobs)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(usersService, rbacService, sessionManager, authRepo, auditLogger, logger)
	authHandler := auth.NewHandler(logger, authService, blobs)

	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService, rbacMiddleware)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		CardsHandler:       cardsHandler,
		PropertiesHandler:  propertiesHandler,
		PermissionsHandler: permissionsHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
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
