package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FromContext returns the logger stored in ctx, or fallback when none is set.
func FromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return fallback
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return fallback
}

type loggerKey struct{}

// New builds a structured logger. Production emits JSON lines, other
// environments get the console writer.
func New(appName, env, level string) zerolog.Logger {
	var output io.Writer = os.Stdout
	if env != "production" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		}
	}
	logger := zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
	return logger
}

// ParseLevel maps a textual level to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// IntoContext injects a logger into context for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
