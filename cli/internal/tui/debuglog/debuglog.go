// ABOUTME: File-backed slog logger for the TUI
// ABOUTME: Keeps log output off the terminal while the alternate screen is active

package debuglog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelikan-io/capacity-calculator/backend/logger"
)

// Open points the default slog logger at path, creating parent directories
// as needed. The returned function closes the file and restores the previous
// default logger. An empty path silences logging for the session.
func Open(path string) (func() error, error) {
	prev := slog.Default()

	if path == "" {
		slog.SetDefault(logger.New(io.Discard, "error", "text"))
		return func() error {
			slog.SetDefault(prev)
			return nil
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}

	slog.SetDefault(logger.New(f, "debug", os.Getenv("LOG_FORMAT")))
	return func() error {
		slog.SetDefault(prev)
		return f.Close()
	}, nil
}

// DefaultPath returns the debug log location under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pelikan-sizer", "debug.log")
}
