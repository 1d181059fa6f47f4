package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/internal/auth"
	"github.com/joaoo737/deliveryfront/pkg/enums"
)

type contextKey string

const (
	ctxSession  contextKey = "session"
	ctxAccessID contextKey = "access_id"
)

// SessionFromContext returns the authenticated session seeded by the
// Auth middleware. The zero value is an unauthenticated session.
func SessionFromContext(ctx context.Context) auth.Session {
	if ctx == nil {
		return auth.NewSession()
	}
	if s, ok := ctx.Value(ctxSession).(auth.Session); ok {
		return s
	}
	return auth.NewSession()
}

func UserIDFromContext(ctx context.Context) uuid.UUID {
	return SessionFromContext(ctx).UserID
}

func RoleFromContext(ctx context.Context) enums.Role {
	return SessionFromContext(ctx).Role
}

// AccessIDFromContext returns the JWT session id (jti) for the request.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithSession injects an authenticated session into the context.
func WithSession(ctx context.Context, session auth.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, session)
}

// WithAccessID injects the JWT session id into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
