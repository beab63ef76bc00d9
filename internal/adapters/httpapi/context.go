package httpapi

import (
	"context"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
)

type callerKey struct{}
type tokenKey struct{}

// WithCaller stores the authenticated user on the request context.
func WithCaller(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, callerKey{}, u)
}

// CallerFromContext returns the authenticated user for the request.
func CallerFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(callerKey{}).(domain.User)
	return u, ok && u.ID != ""
}

// WithBearerToken stores the raw bearer token so logout can revoke
// exactly the credential used for the current request.
func WithBearerToken(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, tokenKey{}, raw)
}

// BearerTokenFromContext returns the raw bearer token for the request.
func BearerTokenFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tokenKey{}).(string)
	return v, ok && v != ""
}
