// Package requestcontext carries request-scoped values from middleware to
// services without a net/http dependency. Services read them when building
// audit entries; tests inject them directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")
package requestcontext

import (
	"context"
	"time"
)

type (
	callerKey      struct{}
	clientKey      struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

type caller struct {
	actor string
	role  string
}

type client struct {
	ip        string
	userAgent string
}

// AnonymousActor is recorded when no authenticated caller is present.
const AnonymousActor = "anonymous"

// WithCaller injects the authenticated subject and role.
func WithCaller(ctx context.Context, actor, role string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller{actor: actor, role: role})
}

// Actor returns the authenticated subject, or AnonymousActor.
func Actor(ctx context.Context) string {
	if c, ok := ctx.Value(callerKey{}).(caller); ok && c.actor != "" {
		return c.actor
	}
	return AnonymousActor
}

// Role returns the caller's role claim, or "" when unauthenticated.
func Role(ctx context.Context) string {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c.role
}

// WithClientMetadata injects the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return context.WithValue(ctx, clientKey{}, client{ip: clientIP, userAgent: userAgent})
}

func ClientIP(ctx context.Context) string {
	c, _ := ctx.Value(clientKey{}).(client)
	return c.ip
}

func UserAgent(ctx context.Context) string {
	c, _ := ctx.Value(clientKey{}).(client)
	return c.userAgent
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithTime pins the request time so every audit entry of a request shares it.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to the wall clock for the
// CLI and background work.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
