// Package logging carries request-scoped slog loggers through contexts so
// handlers and services share one annotated logger per request.
package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const loggerKey ctxKey = 0

// ContextWithLogger attaches logger to the context. A nil logger leaves the
// context untouched.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or nil when none is set.
// Callers decide their own fallback.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return nil
}
