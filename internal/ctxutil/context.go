// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	sessionIDKey contextKey = "ctxutil.sessionID"
	requestIDKey contextKey = "ctxutil.requestID"
	orderIDKey   contextKey = "ctxutil.orderID"
)

// WithSessionID adds a session ID to the context.
// Session IDs come from the visitor cookie and key the per-session cart,
// theme preference, and rate limit buckets.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID retrieves the session ID from the context.
// Returns the session ID if found, empty string otherwise.
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(sessionIDKey); v != nil {
		if sessionID, ok := v.(string); ok && sessionID != "" {
			return sessionID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// The second return value reports whether a non-empty ID was present.
func GetRequestID(ctx context.Context) (string, bool) {
	if v := ctx.Value(requestIDKey); v != nil {
		if requestID, ok := v.(string); ok && requestID != "" {
			return requestID, true
		}
	}
	return "", false
}

// WithOrderID adds an order ID to the context.
// Set while a checkout submission is in flight so storage and submitter
// logs correlate with the order being placed.
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

// GetOrderID retrieves the order ID from the context.
// Returns the order ID if found, empty string otherwise.
func GetOrderID(ctx context.Context) string {
	if v := ctx.Value(orderIDKey); v != nil {
		if orderID, ok := v.(string); ok && orderID != "" {
			return orderID
		}
	}
	return ""
}
