// Package ctxlog carries a slog.Logger through a context.Context so that
// deeply nested code logs through the logger of the run that created it.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type so no other package can collide with our entry.
type key struct{}

var loggerKey = key{}

// WithLogger returns a child context with the given logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx. Code paths that run before the
// run logger exists (early CLI parsing, tests) get slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
