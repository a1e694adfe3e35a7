// ABOUTME: Entry point for the Node Capacity Planner backend service
// ABOUTME: Provides HTTP API for Kubernetes worker node sizing, placement, and cost

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/node-capacity-planner/backend/cache"
	"github.com/markalston/node-capacity-planner/backend/catalog"
	"github.com/markalston/node-capacity-planner/backend/config"
	"github.com/markalston/node-capacity-planner/backend/handlers"
	"github.com/markalston/node-capacity-planner/backend/logger"
	"github.com/markalston/node-capacity-planner/backend/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Node Capacity Planner Backend")

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load instance catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	if cfg.CatalogPath != "" {
		slog.Info("Instance catalog loaded", "path", cfg.CatalogPath, "instances", cat.Len())
	} else {
		slog.Info("Using embedded instance catalog", "instances", cat.Len())
	}

	// Initialize cache
	c := cache.New(cfg.CacheDuration())
	defer c.Close()
	slog.Info("Cache initialized", "ttl", cfg.CacheDuration(), "calculator_ttl", cfg.CalculatorDuration())

	h := handlers.NewHandler(cfg, c, cat)
	mux := server.NewRouter(cfg, h)

	if cfg.RateLimitEnabled {
		slog.Info("Rate limiting enabled", "write_per_min", cfg.RateLimitWrite, "default_per_min", cfg.RateLimitDefault)
	} else {
		slog.Warn("Rate limiting disabled")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		slog.Info("CORS disabled, cross-origin requests are blocked")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr, "metrics", cfg.MetricsEnabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
