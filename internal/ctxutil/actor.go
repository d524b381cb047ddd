// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting reviewer/operator.
type ActorKey struct{}

// RunKey is the context key for the apply run correlation ID.
type RunKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRunID returns a context carrying the apply run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunKey{}, runID)
}

// RunIDFromContext returns the apply run ID, or empty string if not set.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RunKey{}).(string); ok {
		return v
	}
	return ""
}
