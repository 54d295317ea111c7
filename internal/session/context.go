package session

import (
	"context"
	"time"
)

type contextKey string

const (
	sessionKey contextKey = "fitgpt-session-id"
	expiryKey  contextKey = "fitgpt-session-expiry"
)

// WithID stores the session id on the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// IDFromContext returns the id stored by WithID, or "" when the request
// carried no valid session.
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = WithID(ctx, claims.SessionID)
	return context.WithValue(ctx, expiryKey, claims.ExpiresAt)
}

func expiryFromContext(ctx context.Context) (time.Time, bool) {
	exp, ok := ctx.Value(expiryKey).(time.Time)
	return exp, ok
}
