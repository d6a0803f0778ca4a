// ABOUTME: Debug logger for the TUI that writes structured records to a file
// ABOUTME: Keeps diagnostics off the terminal while the alt screen is active

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens debug.log in configDir. An empty configDir leaves logging off.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("component", "tui")
	return nil
}

// Close closes the log file and turns logging off
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Log writes a debug record
func Log(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Error logs err with the operation it came from
func Error(op string, err error) {
	if err == nil {
		return
	}
	current().Error("operation failed", "op", op, "error", err)
}

// Warn logs a warning record
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}
