package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// StorageBackend selects the repository adapters: "memory" or "postgres".
	StorageBackend string
	// DatabaseURL is the Postgres DSN; required when StorageBackend is "postgres".
	DatabaseURL string

	// CacheBackend selects the listing cache adapter: "memory" or "redis".
	CacheBackend string
	// RedisAddr is the Redis host:port; required when CacheBackend is "redis".
	RedisAddr string

	// CacheTTL bounds staleness of cached listing pages.
	CacheTTL time.Duration
}

// Load reads configuration from the environment, applying defaults that
// make the binary runnable with no configuration at all (in-memory
// storage and cache).
func Load() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CacheBackend:   getenv("CACHE_BACKEND", "memory"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:       60 * time.Second,
	}

	if raw := os.Getenv("CACHE_TTL_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL_SECONDS %q", raw)
		}
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
