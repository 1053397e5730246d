package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/petrocom/uts/internal/app"
	"github.com/petrocom/uts/internal/auth"
	"github.com/petrocom/uts/internal/dashboard"
	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/gate"
	jobmetrics "github.com/petrocom/uts/internal/jobs"
	"github.com/petrocom/uts/internal/observability"
	"github.com/petrocom/uts/internal/platform/cache"
	"github.com/petrocom/uts/internal/platform/db"
	"github.com/petrocom/uts/internal/shared"
	"github.com/petrocom/uts/jobs"
	"github.com/petrocom/uts/report"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (the default when no command is given)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return nil
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)
	if err := serve(cmd.Context(), cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		return err
	}
	return nil
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	repo, closeRepo, err := userRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	sessions := shared.NewSessionManager(redisClient, "uts_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrf := shared.NewCSRFManager(cfg.CSRFSecret)
	catalog := datasets.Default()

	g := gate.New(auth.SessionProvider{}, tokens, logger, gate.WithObserver(func(s gate.State) {
		metrics.ObserveGate(string(s))
	}))

	jobClient, err := jobs.NewClient(redisOpts.AsynqOpt(), jobmetrics.NewMetrics(metrics.Registerer()))
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	inspector := asynq.NewInspector(redisOpts.AsynqOpt())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("asynq inspector close", slog.Any("error", err))
		}
	}()

	pdfClient := report.NewClient(cfg.GotenbergURL, report.WithLandscape())

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessions,
		CSRFManager:    csrf,
		Catalog:        catalog,
		AuthHandler:    auth.NewHandler(logger, auth.NewService(repo, tokens), sessions, csrf),
		DashboardHandler: dashboard.NewHandler(logger, catalog, g, dashboard.Config{
			Metrics:     metrics,
			Audit:       jobClient,
			PDF:         pdfClient,
			ExportLimit: cfg.ExportRateLimit,
		}),
		ReportHandler: report.NewHandler(pdfClient, logger),
		JobHandler:    jobs.NewHandler(inspector, logger),
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}

// userRepository picks the in-memory demo accounts when a demo password is
// configured and Postgres otherwise.
func userRepository(ctx context.Context, cfg *app.Config, logger *slog.Logger) (auth.Repository, func(), error) {
	if cfg.DemoPassword != "" {
		users, err := auth.DemoUsers(cfg.DemoPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("demo users: %w", err)
		}
		logger.Warn("serving demo accounts", slog.Int("count", len(users)))
		return auth.NewMemoryRepository(users...), func() {}, nil
	}
	pool, err := db.New(ctx, cfg.PGDSN, db.WithMaxConns(cfg.PGMaxConns))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return auth.NewRepository(pool), pool.Close, nil
}
