// Package cachetest runs the Redis cache against an in-process miniredis
// server for tests.
package cachetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/storefront/internal/cache"
)

// New starts a miniredis server that is torn down with t and returns it
// with a RedisCache connected to it.
func New(t testing.TB) (*miniredis.Miniredis, *cache.RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, cache.NewRedisCache(rdb)
}
