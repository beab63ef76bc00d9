package travelrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

// Repo is an in-memory implementation of travelrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.TravelID]record
	seq  uint64
}

// record pairs a travel with a monotonic insertion sequence so pagination
// stays in insertion order across updates.
type record struct {
	travel domain.Travel
	seq    uint64
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.TravelID]record)}
}

func (r *Repo) Create(ctx context.Context, t domain.Travel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; ok {
		return travelrepo.ErrAlreadyExists
	}
	r.seq++
	r.byID[t.ID] = record{travel: t, seq: r.seq}
	return nil
}

func (r *Repo) Update(ctx context.Context, t domain.Travel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[t.ID]
	if !ok || existing.travel.OwnerID != t.OwnerID {
		return travelrepo.ErrNotFound
	}
	// Keep the original sequence: an update must not reorder listings.
	r.byID[t.ID] = record{travel: t, seq: existing.seq}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, owner domain.UserID, id domain.TravelID) (domain.Travel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok || rec.travel.OwnerID != owner {
		return domain.Travel{}, travelrepo.ErrNotFound
	}
	return rec.travel, nil
}

func (r *Repo) Paginate(ctx context.Context, owner domain.UserID, page, perPage int) (travelrepo.Page, error) {
	_ = ctx
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	r.mu.RLock()
	recs := make([]record, 0)
	for _, rec := range r.byID {
		if rec.travel.OwnerID == owner {
			recs = append(recs, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	total := len(recs)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	data := make([]domain.Travel, 0, end-start)
	for _, rec := range recs[start:end] {
		data = append(data, rec.travel)
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
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.travel.OwnerID != owner {
		return travelrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
