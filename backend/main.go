// ABOUTME: Entry point for the Pelikan capacity calculator backend service
// ABOUTME: Serves the sizing HTTP API with logging, CORS, and rate limiting

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

	"github.com/pelikan-io/capacity-calculator/backend/cache"
	"github.com/pelikan-io/capacity-calculator/backend/config"
	"github.com/pelikan-io/capacity-calculator/backend/handlers"
	"github.com/pelikan-io/capacity-calculator/backend/logger"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Pelikan Capacity Calculator Backend", "version", handlers.Version)
	slog.Info("Sizing defaults", "ram_candidates_gb", cfg.DefaultRAMCandidatesGB)
	if cfg.RateLimitEnabled {
		slog.Info("Rate limiting enabled", "requests_per_minute", cfg.RateLimitDefault)
	} else {
		slog.Warn("Rate limiting disabled")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		slog.Info("CORS: no origins allowed, cross-origin requests will be blocked")
	}

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	h := handlers.NewHandler(cfg, c)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
