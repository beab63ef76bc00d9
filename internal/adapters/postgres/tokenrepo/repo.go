package tokenrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-labs/travel-log-api/internal/adapters/postgres"
	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/tokenrepo"
)

// Repo is a Postgres implementation of tokenrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t tokenrepo.Token) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}
	userUUID, err := uuid.Parse(string(t.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		INSERT INTO auth_tokens (external_id, user_id, token_hash, created_at)
		SELECT $1, u.id, $3, $4
		FROM users u
		WHERE u.external_id = $2
	`,
		id,
		userUUID,
		t.TokenHash,
		t.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return tokenrepo.ErrAlreadyExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("user %s does not exist", t.UserID)
	}
	return nil
}

func (r *Repo) GetByHash(ctx context.Context, hash string) (tokenrepo.Token, error) {
	if r.pool == nil {
		return tokenrepo.Token{}, errors.New("nil postgres pool")
	}
	var (
		externalID uuid.UUID
		userUUID   uuid.UUID
		tokenHash  string
		createdAt  time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT t.external_id, u.external_id, t.token_hash, t.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = $1
	`, hash).Scan(&externalID, &userUUID, &tokenHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tokenrepo.Token{}, tokenrepo.ErrNotFound
		}
		return tokenrepo.Token{}, err
	}
	return tokenrepo.Token{
		ID:        domain.TokenID(externalID.String()),
		UserID:    domain.UserID(userUUID.String()),
		TokenHash: tokenHash,
		CreatedAt: createdAt.UTC(),
	}, nil
}

func (r *Repo) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	if r.pool == nil {
		return false, errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1`, hash)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
