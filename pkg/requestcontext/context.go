// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values; services read them. Keeping this package free
// of net/http lets the core be exercised in tests without any session or
// transport machinery: inject the acting caller with WithActor and a fixed
// clock with WithTime.
package requestcontext

import (
	"context"
	"time"

	id "lexid/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	actorIDKey     struct{}
	actorRoleKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	contextKeyActorID     = actorIDKey{}
	contextKeyActorRole   = actorRoleKey{}
	contextKeyRequestID   = requestIDKey{}
	contextKeyRequestTime = requestTimeKey{}
)

// ActorID retrieves the acting caller's profile ID from the context.
// Returns the zero value (nil UUID) if no caller context is present.
func ActorID(ctx context.Context) id.ProfileID {
	if actorID, ok := ctx.Value(contextKeyActorID).(id.ProfileID); ok {
		return actorID
	}
	return id.ProfileID{}
}

// ActorRole retrieves the acting caller's role from the context.
// Returns the empty role if no caller context is present.
func ActorRole(ctx context.Context) id.Role {
	if role, ok := ctx.Value(contextKeyActorRole).(id.Role); ok {
		return role
	}
	return ""
}

// WithActor injects the resolved caller identity into the context.
func WithActor(ctx context.Context, actorID id.ProfileID, role id.Role) context.Context {
	ctx = context.WithValue(ctx, contextKeyActorID, actorID)
	return context.WithValue(ctx, contextKeyActorRole, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests and for workers that need a consistent time within a batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime, t)
}
