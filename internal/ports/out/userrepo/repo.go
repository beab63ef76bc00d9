package userrepo

import (
	"context"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
)

// Repository provides access to persisted users.
//
// Email lookups are case-insensitive: adapters must treat addresses that
// differ only in case as the same account.
type Repository interface {
	// Create persists a new user. It returns ErrEmailTaken when another
	// user already holds the email address.
	Create(ctx context.Context, u domain.User) error

	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
