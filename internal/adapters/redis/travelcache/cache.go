package travelcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelcache"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

// scanBatch bounds how many keys one SCAN iteration asks for during a flush.
const scanBatch = 100

// Cache is a Redis implementation of travelcache.Cache.
//
// Pages are stored as JSON under the shared travelcache key scheme with a
// server-side TTL, so expiry needs no in-process bookkeeping.
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Open dials addr and verifies connectivity before returning a cache.
func Open(ctx context.Context, addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetPage(ctx context.Context, owner domain.UserID, page, perPage int) (travelrepo.Page, bool, error) {
	raw, err := c.client.Get(ctx, travelcache.Key(owner, page, perPage)).Bytes()
	if err == redis.Nil {
		return travelrepo.Page{}, false, nil
	}
	if err != nil {
		return travelrepo.Page{}, false, err
	}
	var pg cachedPage
	if err := json.Unmarshal(raw, &pg); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return travelrepo.Page{}, false, nil
	}
	return pg.toPage(), true, nil
}

func (c *Cache) SetPage(ctx context.Context, owner domain.UserID, page, perPage int, pg travelrepo.Page, ttl time.Duration) error {
	raw, err := json.Marshal(fromPage(pg))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, travelcache.Key(owner, page, perPage), raw, ttl).Err()
}

func (c *Cache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "travels:*", scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

// cachedPage is the serialized form of a listing page. It mirrors
// travelrepo.Page with explicit JSON tags so the stored shape is stable
// across refactors of the domain types.
type cachedPage struct {
	Data        []cachedTravel `json:"data"`
	CurrentPage int            `json:"current_page"`
	PerPage     int            `json:"per_page"`
	Total       int            `json:"total"`
	LastPage    int            `json:"last_page"`
}

type cachedTravel struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Type        string    `json:"type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func fromPage(pg travelrepo.Page) cachedPage {
	out := cachedPage{
		Data:        make([]cachedTravel, 0, len(pg.Data)),
		CurrentPage: pg.CurrentPage,
		PerPage:     pg.PerPage,
		Total:       pg.Total,
		LastPage:    pg.LastPage,
	}
	for _, t := range pg.Data {
		out.Data = append(out.Data, cachedTravel{
			ID:          string(t.ID),
			OwnerID:     string(t.OwnerID),
			Origin:      t.Origin,
			Destination: t.Destination,
			Type:        t.Type,
			StartDate:   t.StartDate,
			EndDate:     t.EndDate,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return out
}

func (p cachedPage) toPage() travelrepo.Page {
	out := travelrepo.Page{
		Data:        make([]domain.Travel, 0, len(p.Data)),
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage,
	}
	for _, t := range p.Data {
		out.Data = append(out.Data, domain.Travel{
			ID:          domain.TravelID(t.ID),
			OwnerID:     domain.UserID(t.OwnerID),
			Origin:      t.Origin,
			Destination: t.Destination,
			Type:        t.Type,
			StartDate:   t.StartDate,
			EndDate:     t.EndDate,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return out
}
