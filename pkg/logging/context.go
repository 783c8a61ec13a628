package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger adds a logger to the context. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRunID tags the context logger with the ID of one command invocation.
func WithRunID(ctx context.Context, runID string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, runID)
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("run_id", runID)
	})
}

// RunID extracts the run ID from context.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithFields adds structured fields to the logger in the context.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Fields(fields)
	})
}

// WithAnnotator adds annotator (speaker) context to the logger.
func WithAnnotator(ctx context.Context, annotatorID string) context.Context {
	return withStr(ctx, "annotator", annotatorID)
}

// WithArchive adds archive path context to the logger.
func WithArchive(ctx context.Context, path string) context.Context {
	return withStr(ctx, "archive", path)
}

// WithOperation adds operation context to the logger.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

// WithError adds an error to the context logger. A nil error returns ctx.
func WithError(ctx context.Context, err error) context.Context {
	if err == nil {
		return ctx
	}
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Err(err)
	})
}

func withStr(ctx context.Context, key, value string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str(key, value)
	})
}

func with(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	logger := fn(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &logger)
}
