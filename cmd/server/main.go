// Package main is the entrypoint for the FreelancePay API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freelancepay/freelancepay/internal/api"
	"github.com/freelancepay/freelancepay/internal/api/handler"
	mw "github.com/freelancepay/freelancepay/internal/api/middleware"
	"github.com/freelancepay/freelancepay/internal/api/response"
	"github.com/freelancepay/freelancepay/internal/cache"
	"github.com/freelancepay/freelancepay/internal/classifier"
	"github.com/freelancepay/freelancepay/internal/config"
	"github.com/freelancepay/freelancepay/internal/content"
	"github.com/freelancepay/freelancepay/internal/jobs"
	"github.com/freelancepay/freelancepay/internal/stats"
	"github.com/freelancepay/freelancepay/internal/store"
	"github.com/freelancepay/freelancepay/internal/verify"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create classifier
	reviewer, err := classifier.NewClassifier(cfg.AI)
	if err != nil {
		return fmt.Errorf("create classifier: %w", err)
	}
	slog.Info("classifier initialized", "provider", reviewer.Name())

	// 6. Create store and verification pipeline
	pgStore := store.NewPostgresStore(pool)

	fetcher := content.NewHTTPFetcher(cfg.Content.GatewayURL, cfg.Content.FetchTimeout)
	pipeline := verify.NewPipeline(pgStore, redisCache, fetcher, reviewer,
		cfg.AI.ReviewTimeout, cfg.Verify.QueueSize)
	pipeline.Start(cfg.Verify.Workers)
	defer pipeline.Stop()
	slog.Info("verification pipeline started", "workers", cfg.Verify.Workers)

	// 7. Build services and router
	jobSvc := jobs.NewService(pgStore, pipeline)
	statsSvc := stats.NewService(pgStore, redisCache)

	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMin),

		HealthHandler:       healthHandler(pgStore, redisCache),
		CreateJobHandler:    handler.NewCreateJobHandler(jobSvc),
		LinkChainHandler:    handler.NewLinkChainHandler(jobSvc),
		SubmitWorkHandler:   handler.NewSubmitWorkHandler(jobSvc),
		ApproveJobHandler:   handler.NewApproveJobHandler(jobSvc),
		DisputeJobHandler:   handler.NewDisputeJobHandler(jobSvc),
		GetJobHandler:       handler.NewGetJobHandler(jobSvc),
		ListUserJobsHandler: handler.NewListUserJobsHandler(jobSvc),
		StatsHandler:        handler.NewStatsHandler(statsSvc),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout; the deferred pipeline.Stop drains
	// in-flight verifications after the listener closes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
