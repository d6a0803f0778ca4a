// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Builds the gateway logger with level and format from environment.

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Service is attached to every record so gateway logs can be told apart
// from the image backend's when both ship to one sink.
const Service = "visionary-gateway"

// Init configures the default slog logger based on environment variables.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text; json when APP_ENV=production)
func Init() {
	format := os.Getenv("LOG_FORMAT")
	if format == "" && strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		format = "json"
	}
	slog.SetDefault(New(os.Stdout, os.Getenv("LOG_LEVEL"), format))
}

// New returns a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("service", Service)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
