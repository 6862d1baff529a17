package lexgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger emits structured logs for index operations with consistent field
// names, so fit, search, save, and load lines correlate across handlers.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler falls back to info-level text on
// stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON lines to stderr at the given minimum level.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs human-readable lines to stderr at the given minimum level.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// LogFit logs a fit operation.
func (l *Logger) LogFit(ctx context.Context, docs, terms int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"docs", docs,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fit completed",
			"docs", docs,
			"terms", terms,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(ctx context.Context, generation uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"generation", generation,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index saved",
			"generation", generation,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, generation uint64, docs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index loaded",
			"generation", generation,
			"docs", docs,
		)
	}
}
