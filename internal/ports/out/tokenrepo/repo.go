package tokenrepo

import (
	"context"
	"time"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
)

// Token is a persisted bearer credential binding.
//
// Only a SHA-256 hex digest of the issued token is stored; the plaintext
// credential exists solely in the login response.
type Token struct {
	ID        domain.TokenID
	UserID    domain.UserID
	TokenHash string
	CreatedAt time.Time
}

// Repository provides access to issued bearer tokens.
//
// Multiple live tokens per user may coexist; revoking one leaves the
// others valid.
type Repository interface {
	Create(ctx context.Context, t Token) error

	GetByHash(ctx context.Context, hash string) (Token, error)

	// DeleteByHash revokes the token with the given digest. It reports
	// whether a token was actually removed.
	DeleteByHash(ctx context.Context, hash string) (bool, error)
}
