package travelcache

import (
	"testing"
	"time"

	"github.com/wayfarer-labs/travel-log-api/internal/adapters/contracttest"
	memclock "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/clock"
	travelcacheport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelcache"
)

func TestContract_TravelCache(t *testing.T) {
	contracttest.RunTravelCache(t, func(t *testing.T) (travelcacheport.Cache, func()) {
		t.Helper()
		return New(memclock.NewManualClock(time.Unix(1700000000, 0))), nil
	})
}
