package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

type requestIDKey struct{}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or fallback when there is
// none. A nil fallback means slog.Default.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}

// WithRequestID tags ctx with a correlation id. Every outbound request made
// with the context carries it as X-Request-ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey{}, reqID)
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		ctx = WithContext(ctx, l.With("req_id", reqID))
	}
	return ctx
}

// RequestID returns the correlation id set by WithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
