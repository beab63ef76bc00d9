package travelcache

import (
	"context"
	"sync"
	"time"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	clockport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/clock"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelcache"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

// Cache is an in-memory implementation of travelcache.Cache.
//
// Expiry is measured against an injected clock so TTL behavior is
// testable without sleeping. It is safe for concurrent use.
type Cache struct {
	clk clockport.Clock

	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	page      travelrepo.Page
	expiresAt time.Time
}

func New(clk clockport.Clock) *Cache {
	return &Cache{
		clk:     clk,
		entries: make(map[string]entry),
	}
}

func (c *Cache) GetPage(ctx context.Context, owner domain.UserID, page, perPage int) (travelrepo.Page, bool, error) {
	_ = ctx
	key := travelcache.Key(owner, page, perPage)
	now := c.clk.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !now.Before(e.expiresAt) {
		return travelrepo.Page{}, false, nil
	}
	return clonePage(e.page), true, nil
}

func (c *Cache) SetPage(ctx context.Context, owner domain.UserID, page, perPage int, pg travelrepo.Page, ttl time.Duration) error {
	_ = ctx
	key := travelcache.Key(owner, page, perPage)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		page:      clonePage(pg),
		expiresAt: c.clk.Now().Add(ttl),
	}
	return nil
}

func (c *Cache) InvalidateAll(ctx context.Context) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

func clonePage(pg travelrepo.Page) travelrepo.Page {
	out := pg
	out.Data = make([]domain.Travel, len(pg.Data))
	copy(out.Data, pg.Data)
	return out
}
