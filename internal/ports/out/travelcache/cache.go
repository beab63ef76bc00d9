package travelcache

import (
	"context"
	"fmt"
	"time"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
)

// Cache memoizes paginated travel listings per (owner, page, perPage).
//
// Entries expire after the TTL supplied on SetPage. Invalidation is
// coarse: InvalidateAll drops every entry regardless of owner, so a
// write never leaves a reader more than one TTL window behind.
type Cache interface {
	// GetPage returns the cached page and true on a live hit, or ok=false
	// on a miss or expired entry.
	GetPage(ctx context.Context, owner domain.UserID, page, perPage int) (travelrepo.Page, bool, error)

	SetPage(ctx context.Context, owner domain.UserID, page, perPage int, pg travelrepo.Page, ttl time.Duration) error

	// InvalidateAll drops every cached page.
	InvalidateAll(ctx context.Context) error
}

// Key is the canonical cache key for a listing page. Adapters share it so
// keys written by one backend are recognizable in another.
func Key(owner domain.UserID, page, perPage int) string {
	return fmt.Sprintf("travels:user_%s_page_%d_per_page_%d", owner, page, perPage)
}
