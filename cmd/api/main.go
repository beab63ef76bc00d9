package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wayfarer-labs/travel-log-api/internal/adapters/httpapi"
	memtokenrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/tokenrepo"
	memtravelcache "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/travelcache"
	memtravelrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/travelrepo"
	memuserrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/userrepo"
	postgres "github.com/wayfarer-labs/travel-log-api/internal/adapters/postgres"
	pgtokenrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/postgres/tokenrepo"
	pgtravelrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/postgres/travelrepo"
	pguserrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/postgres/userrepo"
	redistravelcache "github.com/wayfarer-labs/travel-log-api/internal/adapters/redis/travelcache"
	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
	"github.com/wayfarer-labs/travel-log-api/internal/app/travels"
	platformclock "github.com/wayfarer-labs/travel-log-api/internal/platform/clock"
	"github.com/wayfarer-labs/travel-log-api/internal/platform/config"
	tokenrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/tokenrepo"
	travelcacheport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelcache"
	travelrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/travelrepo"
	userrepoport "github.com/wayfarer-labs/travel-log-api/internal/ports/out/userrepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	clk := platformclock.NewSystemClock()

	var (
		userRepo   userrepoport.Repository
		travelRepo travelrepoport.Repository
		tokenRepo  tokenrepoport.Repository
		cleanups   []func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		cleanups = append(cleanups, pool.Close)

		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}

		userRepo = pguserrepo.NewRepo(pool)
		travelRepo = pgtravelrepo.NewRepo(pool)
		tokenRepo = pgtokenrepo.NewRepo(pool)
	default:
		userRepo = memuserrepo.NewRepo()
		travelRepo = memtravelrepo.NewRepo()
		tokenRepo = memtokenrepo.NewRepo()
	}

	var cache travelcacheport.Cache
	switch cfg.CacheBackend {
	case "redis":
		rc, err := redistravelcache.Open(context.Background(), cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		cleanups = append(cleanups, func() { _ = rc.Close() })
		cache = rc
	default:
		cache = memtravelcache.New(clk)
	}

	defer func() {
		for _, fn := range cleanups {
			fn()
		}
	}()

	authSvc := auth.NewService(userRepo, tokenRepo, clk)
	travelSvc := travels.NewService(travelRepo, cache, clk)
	travelSvc.CacheTTL = cfg.CacheTTL

	api := httpapi.NewServer(authSvc, travelSvc)
	handler := httpapi.NewRouter(api, authSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		os.Exit(1)
	}
}
