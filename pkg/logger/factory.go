package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings.
type Config struct {
	// Output receives log lines. Defaults to os.Stderr so command output on
	// stdout stays clean.
	Output io.Writer

	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is "json" or "text". Defaults to "text".
	Format string `env:"LOG_FORMAT" default:"text"`

	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" default:"production"`
}

// New creates a logger from cfg with optional context extractors.
// Sentry is enabled when cfg.SentryDSN is set.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	local := newLocalHandler(cfg)

	if cfg.SentryDSN == "" {
		return slog.New(NewLogHandlerDecorator(local, extractors...))
	}

	return slog.New(NewLogHandlerDecorator(withSentry(cfg, local), extractors...))
}

func newLocalHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// ParseLevel converts a level name to slog.Level, falling back to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
