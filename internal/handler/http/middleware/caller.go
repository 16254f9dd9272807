package middleware

import (
	"context"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
)

type callerKey struct{}

// WithCaller attaches the authenticated account to ctx.
func WithCaller(ctx context.Context, caller user.User) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the account attached by AuthRequired.
func CallerFromContext(ctx context.Context) (user.User, bool) {
	caller, ok := ctx.Value(callerKey{}).(user.User)
	return caller, ok
}
