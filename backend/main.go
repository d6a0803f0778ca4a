// ABOUTME: Entry point for the Visionary gallery gateway
// ABOUTME: Proxies the image-generation backend behind sessions and API tokens

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/markalston/visionary-gallery/backend/config"
	"github.com/markalston/visionary-gallery/backend/logger"
	"github.com/markalston/visionary-gallery/backend/server"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Visionary gallery gateway", "environment", cfg.Environment)
	slog.Info("Image backend configured", "url", cfg.BackendURL, "timeout", cfg.UpstreamTimeout)
	if len(cfg.CORSAllowedOrigins) == 0 {
		slog.Info("CORS disabled, no allowed origins configured")
	}

	srv, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
