// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them, services read them; keeping
// this package free of net/http lets services avoid transport imports.
package requestcontext

import (
	"context"
	"time"

	"workaccess/pkg/domain"
)

type (
	authKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Auth retrieves the resolved identity from the context. Returns the
// anonymous external identity if the resolver has not run.
func Auth(ctx context.Context) domain.AuthContext {
	if a, ok := ctx.Value(authKey{}).(domain.AuthContext); ok {
		return a
	}
	return domain.Anonymous()
}

// WithAuth injects the resolved identity into the context.
func WithAuth(ctx context.Context, a domain.AuthContext) context.Context {
	return context.WithValue(ctx, authKey{}, a)
}

// RequestID retrieves the correlation id assigned by the request-id middleware.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a correlation id into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now retrieves the request-scoped time so every decision within one request
// observes the same clock. Falls back to time.Now for workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed time into a context. Used by middleware and by
// tests that need deterministic clocks.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
