package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("APP_PORT", "")
	t.Setenv("TOKEN_TTL_DAYS", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "3306", cfg.DB.Port)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 10, cfg.BcryptCost)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "Memory")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_PREFIX", "shop")

	c := LoadCacheConfig()
	require.Equal(t, CacheMemory, c.Backend)
	require.Equal(t, 90*time.Second, c.TTL)
	require.Equal(t, "shop", c.Prefix)

	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("CACHE_TTL", "soon")
	c = LoadCacheConfig()
	require.Equal(t, CacheRedis, c.Backend)
	require.Equal(t, 600*time.Second, c.TTL)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	rl := LoadRateLimitConfig()
	require.False(t, rl.Enabled)
	require.Equal(t, 1, rl.Capacity)
	require.Equal(t, 10*time.Second, rl.TTL)
}
