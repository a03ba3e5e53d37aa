package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/saeondata/jsonapi-facade/internal/config"
)

// Setup initializes the application's logging system from the server
// configuration. It creates a JSON logger on stdout at the configured level
// and installs it as the slog default.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(os.Stdout, ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	return logger, nil
}

// New returns a JSON logger writing to out at the given level.
func New(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a configured level name onto a slog.Level (case-insensitive).
// Unknown names fall back to info with a warning on stderr.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", name,
			"default_level", "info")
		return slog.LevelInfo
	}
}
