package avjson

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with avjson-specific context.
// This provides structured logging with consistent field names for the
// table and export layers. The codec itself never logs.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithTable adds a table name field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// WithFile adds an export file name field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogRequest logs a single DynamoDB request.
func (l *Logger) LogRequest(ctx context.Context, op string, attributes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"attributes", attributes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, op+" completed",
			"attributes", attributes,
		)
	}
}

// LogBatch logs a batch write.
func (l *Logger) LogBatch(ctx context.Context, items, unprocessed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch write failed",
			"items", items,
			"unprocessed", unprocessed,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch write completed",
			"items", items,
			"unprocessed", unprocessed,
		)
	}
}

// LogExport logs the completion of an export file.
func (l *Logger) LogExport(ctx context.Context, op string, items int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export "+op+" failed",
			"items", items,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export "+op+" completed",
			"items", items,
		)
	}
}
