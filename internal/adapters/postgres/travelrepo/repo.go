package travelrepo

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
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

// Repo is a Postgres implementation of travelrepo.Repository.
//
// Insertion order for pagination comes from the internal bigserial id.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t domain.Travel) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	travelUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid travel id: %w", err)
	}
	ownerUUID, err := uuid.Parse(string(t.OwnerID))
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		INSERT INTO travels (
			external_id,
			user_id,
			origin,
			destination,
			type,
			start_date,
			end_date,
			description,
			created_at,
			updated_at
		)
		SELECT $1, u.id, $3, $4, $5, $6, $7, $8, $9, $10
		FROM users u
		WHERE u.external_id = $2
	`,
		travelUUID,
		ownerUUID,
		t.Origin,
		t.Destination,
		t.Type,
		t.StartDate.UTC(),
		t.EndDate.UTC(),
		t.Description,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "travels_external_id_unique" {
			return travelrepo.ErrAlreadyExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("owner %s does not exist", t.OwnerID)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, t domain.Travel) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	travelUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return travelrepo.ErrNotFound
	}
	ownerUUID, err := uuid.Parse(string(t.OwnerID))
	if err != nil {
		return travelrepo.ErrNotFound
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE travels t
		SET origin = $3,
		    destination = $4,
		    type = $5,
		    start_date = $6,
		    end_date = $7,
		    description = $8,
		    updated_at = $9
		FROM users u
		WHERE t.external_id = $1
		  AND t.user_id = u.id
		  AND u.external_id = $2
	`,
		travelUUID,
		ownerUUID,
		t.Origin,
		t.Destination,
		t.Type,
		t.StartDate.UTC(),
		t.EndDate.UTC(),
		t.Description,
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return travelrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, owner domain.UserID, id domain.TravelID) (domain.Travel, error) {
	if r.pool == nil {
		return domain.Travel{}, errors.New("nil postgres pool")
	}
	travelUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Travel{}, travelrepo.ErrNotFound
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return domain.Travel{}, travelrepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, selectColumns+`
		WHERE t.external_id = $1 AND u.external_id = $2
	`, travelUUID, ownerUUID)
	return scanTravel(row)
}

func (r *Repo) Paginate(ctx context.Context, owner domain.UserID, page, perPage int) (travelrepo.Page, error) {
	if r.pool == nil {
		return travelrepo.Page{}, errors.New("nil postgres pool")
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return emptyPage(page, perPage), nil
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM travels t
		JOIN users u ON u.id = t.user_id
		WHERE u.external_id = $1
	`, ownerUUID).Scan(&total); err != nil {
		return travelrepo.Page{}, err
	}

	rows, err := r.pool.Query(ctx, selectColumns+`
		WHERE u.external_id = $1
		ORDER BY t.id ASC
		LIMIT $2 OFFSET $3
	`, ownerUUID, perPage, (page-1)*perPage)
	if err != nil {
		return travelrepo.Page{}, err
	}
	defer rows.Close()

	data := make([]domain.Travel, 0, perPage)
	for rows.Next() {
		t, err := scanTravel(rows)
		if err != nil {
			return travelrepo.Page{}, err
		}
		data = append(data, t)
	}
	if err := rows.Err(); err != nil {
		return travelrepo.Page{}, err
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return travelrepo.Page{
		Data:        data,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}, nil
}

func (r *Repo) Delete(ctx context.Context, owner domain.UserID, id domain.TravelID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	travelUUID, err := uuid.Parse(string(id))
	if err != nil {
		return travelrepo.ErrNotFound
	}
	ownerUUID, err := uuid.Parse(string(owner))
	if err != nil {
		return travelrepo.ErrNotFound
	}

	ct, err := r.pool.Exec(ctx, `
		DELETE FROM travels t
		USING users u
		WHERE t.external_id = $1
		  AND t.user_id = u.id
		  AND u.external_id = $2
	`, travelUUID, ownerUUID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return travelrepo.ErrNotFound
	}
	return nil
}

// --- helpers ---

const selectColumns = `
	SELECT
		t.external_id,
		u.external_id,
		t.origin,
		t.destination,
		t.type,
		t.start_date,
		t.end_date,
		t.description,
		t.created_at,
		t.updated_at
	FROM travels t
	JOIN users u ON u.id = t.user_id
`

func scanTravel(row pgx.Row) (domain.Travel, error) {
	var (
		externalID  uuid.UUID
		ownerID     uuid.UUID
		origin      string
		destination string
		travelType  string
		startDate   time.Time
		endDate     time.Time
		description string
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(
		&externalID,
		&ownerID,
		&origin,
		&destination,
		&travelType,
		&startDate,
		&endDate,
		&description,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Travel{}, travelrepo.ErrNotFound
		}
		return domain.Travel{}, err
	}
	return domain.Travel{
		ID:          domain.TravelID(externalID.String()),
		OwnerID:     domain.UserID(ownerID.String()),
		Origin:      origin,
		Destination: destination,
		Type:        travelType,
		StartDate:   domain.DateOnly(startDate),
		EndDate:     domain.DateOnly(endDate),
		Description: description,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}

func emptyPage(page, perPage int) travelrepo.Page {
	return travelrepo.Page{
		Data:        []domain.Travel{},
		CurrentPage: page,
		PerPage:     perPage,
		Total:       0,
		LastPage:    1,
	}
}
