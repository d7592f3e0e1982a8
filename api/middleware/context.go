package middleware

import (
	"context"

	"github.com/angelmondragon/hearth-storefront/internal/auth"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxAuthState contextKey = "auth_state"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithSessionID injects the browser session identifier into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// AuthStateFromContext returns the state resolved by RequireAuth.
func AuthStateFromContext(ctx context.Context) (auth.State, bool) {
	if ctx == nil {
		return auth.State{}, false
	}
	state, ok := ctx.Value(ctxAuthState).(auth.State)
	return state, ok
}

func WithAuthState(ctx context.Context, state auth.State) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAuthState, state)
}
