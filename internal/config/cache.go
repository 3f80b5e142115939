package config

import (
	"os"
	"strings"
	"time"
)

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// CacheConfig defines settings for the entity cache. Backend selects Redis
// or the in-process map. TTL is clamped by the repositories to at most
// ten minutes. Prefix namespaces every key when non-empty.
type CacheConfig struct {
	Backend string
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads CACHE_* variables, falling back to defaults.
func LoadCacheConfig() CacheConfig {
	backend := strings.ToLower(getenv("CACHE_BACKEND", CacheRedis))
	if backend != CacheMemory {
		backend = CacheRedis
	}
	return CacheConfig{
		Backend: backend,
		TTL:     parseDur(getenv("CACHE_TTL", "600s"), 600*time.Second),
		Prefix:  os.Getenv("CACHE_PREFIX"),
	}
}

// Helper functions shared by redis.go and ratelimit.go.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
