package megahit

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with assembler-specific helpers.
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

// WithPrefix adds the store prefix field to the logger.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		Logger: l.Logger.With("prefix", prefix),
	}
}

// WithK adds the k-mer size field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogStoreClosed logs the teardown of an edge writer.
func (l *Logger) LogStoreClosed(ctx context.Context, numEdges int64, unsorted bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "edge store close failed",
			"edges", numEdges,
			"unsorted", unsorted,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "edge store written",
		"edges", numEdges,
		"unsorted", unsorted,
	)
}

// LogRefresh logs a unitig graph refresh.
func (l *Logger) LogRefresh(ctx context.Context, vertices, merged, deleted int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unitig graph refresh failed",
			"vertices", vertices,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "unitig graph refreshed",
		"vertices", vertices,
		"merged", merged,
		"deleted", deleted,
	)
}
