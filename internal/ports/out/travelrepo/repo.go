package travelrepo

import (
	"context"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
)

// Page is one slice of an owner's travels plus paging metadata.
type Page struct {
	Data        []domain.Travel
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
}

// Repository provides access to persisted travel records.
//
// Every read and write is owner-scoped: a record that exists but belongs
// to a different owner behaves exactly like one that does not exist.
//
// Result ordering expectations:
// - Paginate returns records in insertion order to keep paging deterministic.
type Repository interface {
	Create(ctx context.Context, t domain.Travel) error

	// Update overwrites the mutable fields of the record identified by
	// (t.OwnerID, t.ID). It returns ErrNotFound when no such record is
	// owned by t.OwnerID.
	Update(ctx context.Context, t domain.Travel) error

	GetByID(ctx context.Context, owner domain.UserID, id domain.TravelID) (domain.Travel, error)

	Paginate(ctx context.Context, owner domain.UserID, page, perPage int) (Page, error)

	// Delete removes the record if it is owned by owner; ErrNotFound otherwise.
	Delete(ctx context.Context, owner domain.UserID, id domain.TravelID) error
}
