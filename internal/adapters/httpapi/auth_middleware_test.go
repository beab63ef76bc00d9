package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	memclock "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/clock"
	memtravelcache "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/travelcache"
	memtravelrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/travelrepo"
	memuserrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/userrepo"
	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
	"github.com/wayfarer-labs/travel-log-api/internal/app/travels"
	"github.com/wayfarer-labs/travel-log-api/internal/ports/out/tokenrepo"
)

// brokenTokenRepo fails every operation, standing in for a token store
// whose backend is unreachable.
type brokenTokenRepo struct{ err error }

func (r brokenTokenRepo) Create(context.Context, tokenrepo.Token) error {
	return r.err
}

func (r brokenTokenRepo) GetByHash(context.Context, string) (tokenrepo.Token, error) {
	return tokenrepo.Token{}, r.err
}

func (r brokenTokenRepo) DeleteByHash(context.Context, string) (bool, error) {
	return false, r.err
}

func TestAuthMiddleware_StoreFailureIs500Not401(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	authSvc := auth.NewService(memuserrepo.NewRepo(), brokenTokenRepo{err: errors.New("token store unavailable")}, clk)
	authSvc.BcryptCost = bcrypt.MinCost
	travelSvc := travels.NewService(memtravelrepo.NewRepo(), memtravelcache.New(clk), clk)

	handler := NewRouter(NewServer(authSvc, travelSvc), authSvc)

	req := httptest.NewRequest(http.MethodGet, "/travels", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// A failing store is not a credential problem: the caller must see
	// a bare 500, never an Unauthorized.
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s, want 500", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Internal Server Error" {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestAuthMiddleware_UnknownTokenStays401(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/travels", "deadbeef", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Unauthorized" {
		t.Fatalf("body=%s", rec.Body.String())
	}
}
