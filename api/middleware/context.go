package middleware

import (
	"context"

	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
)

type contextKey string

const (
	ctxUser     contextKey = "current_user"
	ctxUsername contextKey = "username"
)

// UserFromContext returns the authenticated user seeded by the Auth middleware.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*models.User); ok {
		return v
	}
	return nil
}

// UsernameFromContext returns the authenticated username.
func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUser, user)
	if user != nil {
		ctx = context.WithValue(ctx, ctxUsername, user.Username)
	}
	return ctx
}
