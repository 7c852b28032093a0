package grassgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with grassgo-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRank adds a reduced-rank field to the logger.
func (l *Logger) WithRank(rank int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank),
	}
}

// WithSamples adds a sample-count field to the logger.
func (l *Logger) WithSamples(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("samples", n),
	}
}

// LogFit logs a model fit operation.
func (l *Logger) LogFit(ctx context.Context, samples, rank int, elementWise bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"samples", samples,
			"rank", rank,
			"element_wise", elementWise,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fit completed",
			"samples", samples,
			"rank", rank,
			"element_wise", elementWise,
		)
	}
}

// LogKarcherMean logs a Karcher mean computation.
// Non-convergence is a soft signal, logged as a warning.
func (l *Logger) LogKarcherMean(ctx context.Context, target string, converged bool) {
	if converged {
		l.DebugContext(ctx, "karcher mean converged",
			"target", target,
		)
	} else {
		l.WarnContext(ctx, "karcher mean did not converge within iteration budget",
			"target", target,
		)
	}
}

// LogPredict logs a predict operation.
func (l *Logger) LogPredict(ctx context.Context, queries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "predict failed",
			"queries", queries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "predict completed",
			"queries", queries,
		)
	}
}
