// Package main is the entrypoint for the Big Five analysis API server.
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

	"github.com/joho/godotenv"
	"github.com/okhsunrog/big-five-tester/internal/ai"
	"github.com/okhsunrog/big-five-tester/internal/api"
	"github.com/okhsunrog/big-five-tester/internal/api/handler"
	mw "github.com/okhsunrog/big-five-tester/internal/api/middleware"
	"github.com/okhsunrog/big-five-tester/internal/api/response"
	"github.com/okhsunrog/big-five-tester/internal/cache"
	"github.com/okhsunrog/big-five-tester/internal/config"
	"github.com/okhsunrog/big-five-tester/internal/jobs"
	"github.com/okhsunrog/big-five-tester/internal/registry"
	"github.com/okhsunrog/big-five-tester/internal/store"
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
	// Load .env for local development; API keys come from the environment.
	_ = godotenv.Load()

	// 1. Load config, failing fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "ai_config", cfg.AI.ConfigPath)

	// 2. Load the model preset registry
	reg, err := registry.Load(cfg.AI.ConfigPath)
	if err != nil {
		return fmt.Errorf("load model registry: %w", err)
	}
	slog.Info("model registry loaded",
		"models", len(reg.ListModels()),
		"default_model", reg.DefaultModel().ID,
		"safeguard", reg.Safeguard() != nil && reg.Safeguard().Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 4. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 5. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 6. Wire the analysis pipeline and job runner
	pgStore := store.NewPostgresStore(pool)
	pipeline := ai.NewPipeline(reg, ai.NewHTTPCaller())
	jobStore := jobs.NewStore()
	runner := jobs.NewRunner(jobStore, pipeline, pgStore)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.RateLimit.AnalysesPerMinute),

		HealthHandler:         healthHandler(pgStore, redisCache),
		StartAnalysisHandler:  handler.NewStartAnalysisHandler(runner),
		AnalysisStatusHandler: handler.NewAnalysisStatusHandler(jobStore),
		ListModelsHandler:     handler.NewListModelsHandler(reg),
		SaveResultHandler:     handler.NewSaveResultHandler(pgStore),
		GetResultHandler:      handler.NewGetResultHandler(pgStore),
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

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

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

		if checks["database"] != "ok" || checks["cache"] != "ok" {
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
