package domain

import "time"

// User is the domain representation of a registered account.
//
// PasswordHash is a bcrypt digest of the registration password; the
// plaintext is never persisted and the hash is never serialized to the
// external API surface.
type User struct {
	ID    UserID
	Name  string
	Email string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
