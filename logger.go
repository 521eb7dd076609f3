package entityset

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with entityset-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithEntitySet adds the entity set id to the logger.
func (l *Logger) WithEntitySet(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("entityset", id),
	}
}

// LogEntityLoad logs the reconstruction of one entity.
func (l *Logger) LogEntityLoad(ctx context.Context, entity, format string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "entity load failed",
			"entity", entity,
			"format", format,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "entity loaded",
			"entity", entity,
			"format", format,
			"rows", rows,
		)
	}
}

// LogFetch logs the staging of a remote archive.
func (l *Logger) LogFetch(ctx context.Context, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fetch failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "archive staged",
			"path", path,
		)
	}
}

// LogRead logs a completed entity set reconstruction.
func (l *Logger) LogRead(ctx context.Context, id string, entities, relationships int) {
	l.InfoContext(ctx, "entity set reconstructed",
		"entityset", id,
		"entities", entities,
		"relationships", relationships,
	)
}

// LogWrite logs a completed entity set serialization.
func (l *Logger) LogWrite(ctx context.Context, id, dir, format string) {
	l.InfoContext(ctx, "entity set written",
		"entityset", id,
		"dir", dir,
		"format", format,
	)
}
