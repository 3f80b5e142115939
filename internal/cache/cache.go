// Package cache is the key-value port used by the repositories and the
// token revocation list. Values are opaque strings; callers own the
// serialization.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is the subset of key-value operations the core relies on. Single
// key Get/Set/Del are assumed atomic.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Keys builds the deterministic keys used across the service. Prefix
// namespaces every key when several deployments share one Redis.
type Keys struct {
	Prefix string
}

func (k Keys) join(s string) string {
	if k.Prefix == "" {
		return s
	}
	return k.Prefix + ":" + s
}

// Entity is the single-row key, e.g. product:42.
func (k Keys) Entity(kind string, id uint64) string {
	return k.join(kind + ":" + strconv.FormatUint(id, 10))
}

// Collection is the list key, e.g. all_products.
func (k Keys) Collection(name string) string { return k.join("all_" + name) }

// UserEmail is the login-path credential key.
func (k Keys) UserEmail(email string) string { return k.join("user_email:" + email) }

// Revoked is the revocation marker for a raw bearer token.
func (k Keys) Revoked(token string) string { return k.join("blacklist:" + token) }
