package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-labs/travel-log-api/internal/domain"
	tokenrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/tokenrepo"
	travelcacheport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelcache"
	travelrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
	userrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type TravelRepoFactory func(t *testing.T) (travelrepoport.Repository, userrepoport.Repository, CleanupFunc)
type TokenRepoFactory func(t *testing.T) (tokenrepoport.Repository, userrepoport.Repository, CleanupFunc)
type TravelCacheFactory func(t *testing.T) (travelcacheport.Cache, CleanupFunc)

func newUser(email string) domain.User {
	now := time.Unix(1700000000, 0).UTC()
	return domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Name:         "Contract Tester",
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakefa",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTravel(owner domain.UserID, origin string) domain.Travel {
	now := time.Unix(1700000000, 0).UTC()
	return domain.Travel{
		ID:          domain.TravelID(uuid.NewString()),
		OwnerID:     owner,
		Origin:      origin,
		Destination: "LA",
		Type:        "single day",
		StartDate:   domain.DateOnly(now.AddDate(0, 0, 1)),
		EndDate:     domain.DateOnly(now.AddDate(0, 0, 2)),
		Description: "trip",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RunUserRepo exercises the userrepo.Repository contract.
func RunUserRepo(t *testing.T, factory UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateThenGet", func(t *testing.T) {
		repo, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		u := newUser("alice@example.com")
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := repo.GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Email != u.Email || got.PasswordHash != u.PasswordHash {
			t.Fatalf("got=%+v want=%+v", got, u)
		}

		got, err = repo.GetByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetByEmail: %v", err)
		}
		if got.ID != u.ID {
			t.Fatalf("GetByEmail id=%s want=%s", got.ID, u.ID)
		}
	})

	t.Run("EmailLookupIsCaseInsensitive", func(t *testing.T) {
		repo, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		u := newUser("Bob@Example.com")
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := repo.GetByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetByEmail: %v", err)
		}
		if got.ID != u.ID {
			t.Fatalf("id=%s want=%s", got.ID, u.ID)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		if err := repo.Create(ctx, newUser("dup@example.com")); err != nil {
			t.Fatalf("Create: %v", err)
		}
		err := repo.Create(ctx, newUser("DUP@example.com"))
		if !errors.Is(err, userrepoport.ErrEmailTaken) {
			t.Fatalf("err=%v, want ErrEmailTaken", err)
		}
	})

	t.Run("MissingUser", func(t *testing.T) {
		repo, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		if _, err := repo.GetByID(ctx, domain.UserID(uuid.NewString())); !errors.Is(err, userrepoport.ErrNotFound) {
			t.Fatalf("GetByID err=%v, want ErrNotFound", err)
		}
		if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
			t.Fatalf("GetByEmail err=%v, want ErrNotFound", err)
		}
	})
}

// RunTravelRepo exercises the travelrepo.Repository contract, including
// owner scoping and pagination order.
func RunTravelRepo(t *testing.T, factory TravelRepoFactory) {
	t.Helper()
	ctx := context.Background()

	setup := func(t *testing.T) (travelrepoport.Repository, domain.UserID, domain.UserID) {
		repo, users, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}
		a := newUser("owner-a@example.com")
		b := newUser("owner-b@example.com")
		if err := users.Create(ctx, a); err != nil {
			t.Fatalf("create user a: %v", err)
		}
		if err := users.Create(ctx, b); err != nil {
			t.Fatalf("create user b: %v", err)
		}
		return repo, a.ID, b.ID
	}

	t.Run("CreateThenGet", func(t *testing.T) {
		repo, ownerA, ownerB := setup(t)

		tr := newTravel(ownerA, "NYC")
		if err := repo.Create(ctx, tr); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := repo.GetByID(ctx, ownerA, tr.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Origin != "NYC" || got.OwnerID != ownerA {
			t.Fatalf("got=%+v", got)
		}
		if !got.StartDate.Equal(tr.StartDate) || !got.EndDate.Equal(tr.EndDate) {
			t.Fatalf("dates: got %v..%v want %v..%v", got.StartDate, got.EndDate, tr.StartDate, tr.EndDate)
		}

		// Foreign owner must see nothing.
		if _, err := repo.GetByID(ctx, ownerB, tr.ID); !errors.Is(err, travelrepoport.ErrNotFound) {
			t.Fatalf("foreign GetByID err=%v, want ErrNotFound", err)
		}
	})

	t.Run("PaginateInsertionOrder", func(t *testing.T) {
		repo, ownerA, ownerB := setup(t)

		origins := []string{"a", "b", "c", "d", "e"}
		for _, o := range origins {
			if err := repo.Create(ctx, newTravel(ownerA, o)); err != nil {
				t.Fatalf("Create %s: %v", o, err)
			}
		}
		if err := repo.Create(ctx, newTravel(ownerB, "foreign")); err != nil {
			t.Fatalf("Create foreign: %v", err)
		}

		pg, err := repo.Paginate(ctx, ownerA, 1, 2)
		if err != nil {
			t.Fatalf("Paginate: %v", err)
		}
		if pg.Total != 5 || pg.LastPage != 3 || pg.CurrentPage != 1 || pg.PerPage != 2 {
			t.Fatalf("meta=%+v", pg)
		}
		if len(pg.Data) != 2 || pg.Data[0].Origin != "a" || pg.Data[1].Origin != "b" {
			t.Fatalf("page 1 data=%+v", pg.Data)
		}

		pg, err = repo.Paginate(ctx, ownerA, 3, 2)
		if err != nil {
			t.Fatalf("Paginate p3: %v", err)
		}
		if len(pg.Data) != 1 || pg.Data[0].Origin != "e" {
			t.Fatalf("page 3 data=%+v", pg.Data)
		}

		// Beyond the end: empty data, same metadata.
		pg, err = repo.Paginate(ctx, ownerA, 9, 2)
		if err != nil {
			t.Fatalf("Paginate p9: %v", err)
		}
		if len(pg.Data) != 0 || pg.Total != 5 {
			t.Fatalf("page 9=%+v", pg)
		}
	})

	t.Run("PaginateEmptyOwner", func(t *testing.T) {
		repo, ownerA, _ := setup(t)

		pg, err := repo.Paginate(ctx, ownerA, 1, 10)
		if err != nil {
			t.Fatalf("Paginate: %v", err)
		}
		if pg.Total != 0 || pg.LastPage != 1 || len(pg.Data) != 0 {
			t.Fatalf("pg=%+v", pg)
		}
	})

	t.Run("UpdateOwnerScoped", func(t *testing.T) {
		repo, ownerA, ownerB := setup(t)

		tr := newTravel(ownerA, "NYC")
		if err := repo.Create(ctx, tr); err != nil {
			t.Fatalf("Create: %v", err)
		}

		tr.Destination = "SF"
		if err := repo.Update(ctx, tr); err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := repo.GetByID(ctx, ownerA, tr.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Destination != "SF" {
			t.Fatalf("destination=%q", got.Destination)
		}

		foreign := tr
		foreign.OwnerID = ownerB
		if err := repo.Update(ctx, foreign); !errors.Is(err, travelrepoport.ErrNotFound) {
			t.Fatalf("foreign Update err=%v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateKeepsInsertionOrder", func(t *testing.T) {
		repo, ownerA, _ := setup(t)

		first := newTravel(ownerA, "first")
		second := newTravel(ownerA, "second")
		if err := repo.Create(ctx, first); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := repo.Create(ctx, second); err != nil {
			t.Fatalf("Create: %v", err)
		}

		first.Description = "edited"
		if err := repo.Update(ctx, first); err != nil {
			t.Fatalf("Update: %v", err)
		}

		pg, err := repo.Paginate(ctx, ownerA, 1, 10)
		if err != nil {
			t.Fatalf("Paginate: %v", err)
		}
		if len(pg.Data) != 2 || pg.Data[0].Origin != "first" || pg.Data[1].Origin != "second" {
			t.Fatalf("order changed: %+v", pg.Data)
		}
	})

	t.Run("DeleteOwnerScoped", func(t *testing.T) {
		repo, ownerA, ownerB := setup(t)

		tr := newTravel(ownerA, "NYC")
		if err := repo.Create(ctx, tr); err != nil {
			t.Fatalf("Create: %v", err)
		}

		if err := repo.Delete(ctx, ownerB, tr.ID); !errors.Is(err, travelrepoport.ErrNotFound) {
			t.Fatalf("foreign Delete err=%v, want ErrNotFound", err)
		}
		// The failed foreign delete must not have touched the record.
		if _, err := repo.GetByID(ctx, ownerA, tr.ID); err != nil {
			t.Fatalf("record gone after foreign delete: %v", err)
		}

		if err := repo.Delete(ctx, ownerA, tr.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, ownerA, tr.ID); !errors.Is(err, travelrepoport.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound after delete", err)
		}
		if err := repo.Delete(ctx, ownerA, tr.ID); !errors.Is(err, travelrepoport.ErrNotFound) {
			t.Fatalf("second Delete err=%v, want ErrNotFound", err)
		}
	})
}

// RunTokenRepo exercises the tokenrepo.Repository contract.
func RunTokenRepo(t *testing.T, factory TokenRepoFactory) {
	t.Helper()
	ctx := context.Background()

	setup := func(t *testing.T) (tokenrepoport.Repository, domain.UserID) {
		repo, users, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}
		u := newUser("token-owner@example.com")
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		return repo, u.ID
	}

	newToken := func(user domain.UserID, hash string) tokenrepoport.Token {
		return tokenrepoport.Token{
			ID:        domain.TokenID(uuid.NewString()),
			UserID:    user,
			TokenHash: hash,
			CreatedAt: time.Unix(1700000000, 0).UTC(),
		}
	}

	t.Run("CreateThenGetByHash", func(t *testing.T) {
		repo, owner := setup(t)

		tok := newToken(owner, "hash-1")
		if err := repo.Create(ctx, tok); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := repo.GetByHash(ctx, "hash-1")
		if err != nil {
			t.Fatalf("GetByHash: %v", err)
		}
		if got.UserID != owner {
			t.Fatalf("userID=%s want=%s", got.UserID, owner)
		}
	})

	t.Run("DeleteByHashRevokesOnlyThatToken", func(t *testing.T) {
		repo, owner := setup(t)

		if err := repo.Create(ctx, newToken(owner, "hash-a")); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := repo.Create(ctx, newToken(owner, "hash-b")); err != nil {
			t.Fatalf("Create: %v", err)
		}

		ok, err := repo.DeleteByHash(ctx, "hash-a")
		if err != nil || !ok {
			t.Fatalf("DeleteByHash ok=%v err=%v", ok, err)
		}
		if _, err := repo.GetByHash(ctx, "hash-a"); !errors.Is(err, tokenrepoport.ErrNotFound) {
			t.Fatalf("revoked token err=%v, want ErrNotFound", err)
		}
		if _, err := repo.GetByHash(ctx, "hash-b"); err != nil {
			t.Fatalf("sibling token gone: %v", err)
		}

		ok, err = repo.DeleteByHash(ctx, "hash-a")
		if err != nil || ok {
			t.Fatalf("second DeleteByHash ok=%v err=%v, want ok=false", ok, err)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		repo, _ := setup(t)
		if _, err := repo.GetByHash(ctx, "never-issued"); !errors.Is(err, tokenrepoport.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})
}

// RunTravelCache exercises the travelcache.Cache contract. Expiry is
// covered by adapter-specific tests, since only the memory adapter has a
// controllable clock.
func RunTravelCache(t *testing.T, factory TravelCacheFactory) {
	t.Helper()
	ctx := context.Background()
	owner := domain.UserID(uuid.NewString())

	page := travelrepoport.Page{
		Data:        []domain.Travel{newTravel(owner, "cached")},
		CurrentPage: 1,
		PerPage:     10,
		Total:       1,
		LastPage:    1,
	}

	t.Run("MissThenHit", func(t *testing.T) {
		cache, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		if _, ok, err := cache.GetPage(ctx, owner, 1, 10); err != nil || ok {
			t.Fatalf("cold GetPage ok=%v err=%v, want miss", ok, err)
		}
		if err := cache.SetPage(ctx, owner, 1, 10, page, time.Minute); err != nil {
			t.Fatalf("SetPage: %v", err)
		}

		got, ok, err := cache.GetPage(ctx, owner, 1, 10)
		if err != nil || !ok {
			t.Fatalf("GetPage ok=%v err=%v, want hit", ok, err)
		}
		if got.Total != 1 || len(got.Data) != 1 || got.Data[0].Origin != "cached" {
			t.Fatalf("got=%+v", got)
		}
	})

	t.Run("KeysAreScopedPerOwnerAndPage", func(t *testing.T) {
		cache, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		if err := cache.SetPage(ctx, owner, 1, 10, page, time.Minute); err != nil {
			t.Fatalf("SetPage: %v", err)
		}
		if _, ok, _ := cache.GetPage(ctx, owner, 2, 10); ok {
			t.Fatalf("page 2 unexpectedly hit")
		}
		if _, ok, _ := cache.GetPage(ctx, domain.UserID(uuid.NewString()), 1, 10); ok {
			t.Fatalf("foreign owner unexpectedly hit")
		}
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		cache, cleanup := factory(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		other := domain.UserID(uuid.NewString())
		if err := cache.SetPage(ctx, owner, 1, 10, page, time.Minute); err != nil {
			t.Fatalf("SetPage: %v", err)
		}
		if err := cache.SetPage(ctx, other, 3, 10, page, time.Minute); err != nil {
			t.Fatalf("SetPage other: %v", err)
		}
		if err := cache.InvalidateAll(ctx); err != nil {
			t.Fatalf("InvalidateAll: %v", err)
		}
		if _, ok, _ := cache.GetPage(ctx, owner, 1, 10); ok {
			t.Fatalf("entry survived flush")
		}
		if _, ok, _ := cache.GetPage(ctx, other, 3, 10); ok {
			t.Fatalf("other owner's entry survived flush")
		}
	})
}
