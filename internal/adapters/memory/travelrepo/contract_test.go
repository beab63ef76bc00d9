package travelrepo

import (
	"testing"

	"github.com/wayfarer-labs/travel-log-api/internal/adapters/contracttest"
	memuserrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/userrepo"
	travelrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
	userrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/userrepo"
)

func TestContract_TravelRepo(t *testing.T) {
	contracttest.RunTravelRepo(t, func(t *testing.T) (travelrepoport.Repository, userrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), memuserrepo.NewRepo(), nil
	})
}
