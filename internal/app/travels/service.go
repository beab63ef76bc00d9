package travels

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	clockport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/clock"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelcache"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

const (
	// DefaultPageSize is the fixed listing page size; it is not
	// client-configurable.
	DefaultPageSize = 10

	// DefaultCacheTTL bounds staleness of cached listing pages.
	DefaultCacheTTL = 60 * time.Second
)

// Service implements owner-scoped travel CRUD with a read-through cache
// on the listing path.
type Service struct {
	repo  travelrepo.Repository
	cache travelcache.Cache
	clk   clockport.Clock

	newTravelID func() domain.TravelID

	// PageSize is the listing page size.
	PageSize int
	// CacheTTL is how long a cached listing page stays live.
	CacheTTL time.Duration
}

func NewService(repo travelrepo.Repository, cache travelcache.Cache, clk clockport.Clock) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		clk:   clk,
		newTravelID: func() domain.TravelID {
			return domain.TravelID(uuid.NewString())
		},
		PageSize: DefaultPageSize,
		CacheTTL: DefaultCacheTTL,
	}
}

// List returns one page of the owner's travels, serving from the cache
// when a live entry exists. Cache failures degrade to repository reads;
// they never fail the request.
func (s *Service) List(ctx context.Context, owner domain.UserID, page int) (travelrepo.Page, error) {
	if page < 1 {
		page = 1
	}

	if cached, ok, err := s.cache.GetPage(ctx, owner, page, s.PageSize); err != nil {
		log.Printf("travel cache read: %v", err)
	} else if ok {
		return cached, nil
	}

	pg, err := s.repo.Paginate(ctx, owner, page, s.PageSize)
	if err != nil {
		return travelrepo.Page{}, err
	}
	if err := s.cache.SetPage(ctx, owner, page, s.PageSize, pg, s.CacheTTL); err != nil {
		log.Printf("travel cache write: %v", err)
	}
	return pg, nil
}

// Get returns the owner's travel with the given id. A record owned by
// someone else is indistinguishable from a missing one.
func (s *Service) Get(ctx context.Context, owner domain.UserID, id domain.TravelID) (domain.Travel, error) {
	t, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, travelrepo.ErrNotFound) {
			return domain.Travel{}, notFoundError()
		}
		return domain.Travel{}, err
	}
	return t, nil
}

// Create validates and persists a new travel owned by owner, then flushes
// the listing cache so the next read reflects the new total.
func (s *Service) Create(ctx context.Context, owner domain.UserID, in Input) (domain.Travel, error) {
	if err := s.validate(in); err != nil {
		return domain.Travel{}, err
	}

	now := s.clk.Now()
	t := domain.Travel{
		ID:          s.newTravelID(),
		OwnerID:     owner,
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
		Type:        strings.TrimSpace(in.Type),
		StartDate:   domain.DateOnly(*in.StartDate),
		EndDate:     domain.DateOnly(*in.EndDate),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return domain.Travel{}, err
	}
	s.invalidate(ctx)
	return t, nil
}

// Update re-validates the full field set and overwrites the record if it
// is owned by owner.
func (s *Service) Update(ctx context.Context, owner domain.UserID, id domain.TravelID, in Input) (domain.Travel, error) {
	if err := s.validate(in); err != nil {
		return domain.Travel{}, err
	}

	t, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, travelrepo.ErrNotFound) {
			return domain.Travel{}, notFoundError()
		}
		return domain.Travel{}, err
	}

	t.Origin = strings.TrimSpace(in.Origin)
	t.Destination = strings.TrimSpace(in.Destination)
	t.Type = strings.TrimSpace(in.Type)
	t.StartDate = domain.DateOnly(*in.StartDate)
	t.EndDate = domain.DateOnly(*in.EndDate)
	t.Description = strings.TrimSpace(in.Description)
	t.UpdatedAt = s.clk.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, travelrepo.ErrNotFound) {
			return domain.Travel{}, notFoundError()
		}
		return domain.Travel{}, err
	}
	s.invalidate(ctx)
	return t, nil
}

// Delete removes the owner's travel with the given id.
func (s *Service) Delete(ctx context.Context, owner domain.UserID, id domain.TravelID) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, travelrepo.ErrNotFound) {
			return notFoundError()
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Printf("travel cache flush: %v", err)
	}
}

func (s *Service) validate(in Input) error {
	fields := map[string][]string{}

	requireString := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			fields[name] = append(fields[name], "The "+strings.ReplaceAll(name, "_", " ")+" field is required.")
		}
	}
	requireString("origin", in.Origin)
	requireString("destination", in.Destination)
	requireString("type", in.Type)
	requireString("description", in.Description)

	today := domain.DateOnly(s.clk.Now())
	if in.StartDate == nil {
		fields["start_date"] = append(fields["start_date"], "The start date field is required.")
	} else if domain.DateOnly(*in.StartDate).Before(today) {
		fields["start_date"] = append(fields["start_date"], "The start date must be a date after or equal to today.")
	}
	if in.EndDate == nil {
		fields["end_date"] = append(fields["end_date"], "The end date field is required.")
	} else if in.StartDate != nil && domain.DateOnly(*in.EndDate).Before(domain.DateOnly(*in.StartDate)) {
		fields["end_date"] = append(fields["end_date"], "The end date must be a date after or equal to start date.")
	}

	if len(fields) > 0 {
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "Validation error.",
			Fields:  fields,
		}
	}
	return nil
}

func notFoundError() *Error {
	return &Error{
		Status:  404,
		Code:    "NOT_FOUND",
		Message: "Travel record not found.",
	}
}
