package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tagforge/tagforge/internal/api"
	apimiddleware "github.com/tagforge/tagforge/internal/api/middleware"
	"github.com/tagforge/tagforge/internal/cache"
	"github.com/tagforge/tagforge/internal/config"
	"github.com/tagforge/tagforge/internal/provider"
	"github.com/tagforge/tagforge/internal/ratelimit"
)

// application holds the server's wired-up dependencies.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	limiter  *ratelimit.Limiter
	cache    *cache.Shared
	registry *provider.Registry
}

// newApplication constructs the rate limiter, shared cache, and provider
// registry from configuration. Both Redis-backed components tolerate an
// empty URL and come up in their disabled, fail-open state.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	limiter, err := ratelimit.New(cfg.Redis.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	shared, err := cache.NewShared(cfg.Redis.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shared cache: %w", err)
	}

	return &application{
		config:   cfg,
		logger:   logger,
		limiter:  limiter,
		cache:    shared,
		registry: provider.NewRegistry(cfg.Providers, logger),
	}, nil
}

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	generateHandler := api.NewGenerateHandler(
		app.config.Providers,
		app.limiter,
		app.cache,
		app.registry,
		app.logger,
		os.Stdout,
	)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", generateHandler.Generate)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// startHTTPServer starts the HTTP server with graceful shutdown support.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: router,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("Shutting down server...")
	case <-serverCtx.Done():
		app.logger.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("Server stopped")
	return nil
}
