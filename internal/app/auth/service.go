package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	clockport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/clock"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/tokenrepo"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/userrepo"
)

const (
	minNameLength     = 6
	minPasswordLength = 8

	// tokenBytes is the entropy of an issued bearer token.
	tokenBytes = 32
)

// Service implements registration, login, logout and caller resolution.
type Service struct {
	users  userrepo.Repository
	tokens tokenrepo.Repository
	clk    clockport.Clock

	newUserID  func() domain.UserID
	newTokenID func() domain.TokenID

	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int
}

func NewService(users userrepo.Repository, tokens tokenrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		clk:    clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
		newTokenID: func() domain.TokenID {
			return domain.TokenID(uuid.NewString())
		},
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Register validates the registration form, hashes the password and
// persists the new user. Every violated rule is reported, not just the
// first one.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	fields := map[string][]string{}

	name := domain.NormalizeHumanName(in.Name)
	switch {
	case name == "":
		fields["name"] = append(fields["name"], "The name field is required.")
	case len([]rune(name)) < minNameLength:
		fields["name"] = append(fields["name"], "The name must be at least 6 characters.")
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		fields["email"] = append(fields["email"], "The email field is required.")
	case !isValidEmail(email):
		fields["email"] = append(fields["email"], "The email must be a valid email address.")
	default:
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			fields["email"] = append(fields["email"], "The email has already been taken.")
		} else if !errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, err
		}
	}

	switch {
	case in.Password == "":
		fields["password"] = append(fields["password"], "The password field is required.")
	case len([]rune(in.Password)) < minPasswordLength:
		fields["password"] = append(fields["password"], "The password must be at least 8 characters.")
	}
	if in.Password != "" && in.Password != in.PasswordConfirmation {
		fields["password"] = append(fields["password"], "The password confirmation does not match.")
	}

	if len(fields) > 0 {
		return domain.User{}, validationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clk.Now()
	u := domain.User{
		ID:           s.newUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			// Lost a race with a concurrent registration for the same address.
			return domain.User{}, validationError(map[string][]string{
				"email": {"The email has already been taken."},
			})
		}
		return domain.User{}, err
	}
	return u, nil
}

// Login verifies credentials and mints a fresh bearer token. Previously
// issued tokens for the same user stay valid.
//
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (domain.User, string, error) {
	fields := map[string][]string{}
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		fields["email"] = append(fields["email"], "The email field is required.")
	case !isValidEmail(email):
		fields["email"] = append(fields["email"], "The email must be a valid email address.")
	}
	if in.Password == "" {
		fields["password"] = append(fields["password"], "The password field is required.")
	}
	if len(fields) > 0 {
		return domain.User{}, "", validationError(fields)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, "", unauthorizedError()
		}
		return domain.User{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return domain.User{}, "", unauthorizedError()
	}

	raw, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, raw, nil
}

// Logout revokes exactly the presented token. A token that is already
// gone is not an error: the desired end state holds either way.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	_, err := s.tokens.DeleteByHash(ctx, hashToken(rawToken))
	return err
}

// ResolveCaller returns the user bound to a live bearer token. Missing,
// unknown and revoked tokens all yield the same unauthorized error.
func (s *Service) ResolveCaller(ctx context.Context, rawToken string) (domain.User, error) {
	if rawToken == "" {
		return domain.User{}, unauthorizedError()
	}
	t, err := s.tokens.GetByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return domain.User{}, unauthorizedError()
		}
		return domain.User{}, err
	}
	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, unauthorizedError()
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) issueToken(ctx context.Context, userID domain.UserID) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := hex.EncodeToString(buf)

	t := tokenrepo.Token{
		ID:        s.newTokenID(),
		UserID:    userID,
		TokenHash: hashToken(raw),
		CreatedAt: s.clk.Now(),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", err
	}
	return raw, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Ensure no "Name <email@x>" format sneaks in.
	return addr.Address == email
}

// The auth routes have always answered "Validation Error" while the
// travel routes answer "Validation error."; both spellings are part of
// the wire contract.
func validationError(fields map[string][]string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "Validation Error",
		Fields:  fields,
	}
}

func unauthorizedError() *Error {
	return &Error{
		Status:  401,
		Code:    "UNAUTHORIZED",
		Message: "Unauthorized",
	}
}
