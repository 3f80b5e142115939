package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryJanitorInterval = time.Minute

// Memory is an in-process Cache for single-node development setups without
// Redis. Expired entries are dropped on read and by a background janitor.
type Memory struct {
	c *gocache.Cache
}

var _ Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, memoryJanitorInterval)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", ErrMiss
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrMiss
	}
	return s, nil
}

// Set stores value under key. A non-positive ttl keeps the entry until it
// is deleted.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}
