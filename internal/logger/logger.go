package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/wealthvault-ledger/internal/config"
)

// NewLogger builds the process-wide slog.Logger. Output is JSON on stdout,
// one object per line, tagged with the service name so the two binaries can
// be told apart in a merged stream.
func NewLogger(cfg *config.Config, service string) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the log volume when debugging
		AddSource: level == slog.LevelDebug,
	})

	return slog.New(handler).With("service", service)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
