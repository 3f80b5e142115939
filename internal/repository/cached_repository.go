package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/cache"
)

// MaxCacheTTL bounds how long any cached record may stay fresh.
const MaxCacheTTL = 600 * time.Second

// Store is the primary-key CRUD surface of one entity table. T is the row,
// C the insert column set and P the partial update.
type Store[T, C, P any] interface {
	FindByID(ctx context.Context, id uint64) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, data C) (*T, error)
	Update(ctx context.Context, id uint64, patch P) (*T, error)
	Delete(ctx context.Context, id uint64) (*T, error)
}

// Options describe how one entity kind is cached.
type Options[T any] struct {
	Kind       string        // single-row key prefix, e.g. "product"
	Collection string        // list key suffix, e.g. "products"
	Label      string        // human name used in error messages, e.g. "Product"
	TTL        time.Duration // freshness window, clamped to MaxCacheTTL
	Keys       cache.Keys
	// Dependents returns extra keys mirroring a row that must be dropped
	// whenever that row is updated or deleted.
	Dependents func(row *T) []string
}

// CachedRepository is a read-through, write-invalidate repository. Reads
// consult the cache first and populate it on miss; every successful write
// deletes the affected keys before returning.
type CachedRepository[T, C, P any] struct {
	store Store[T, C, P]
	cache cache.Cache
	opts  Options[T]
}

// NewCachedRepository wires a store and a cache under opts.
func NewCachedRepository[T, C, P any](store Store[T, C, P], c cache.Cache, opts Options[T]) *CachedRepository[T, C, P] {
	if opts.TTL <= 0 || opts.TTL > MaxCacheTTL {
		opts.TTL = MaxCacheTTL
	}
	if opts.Label == "" {
		opts.Label = opts.Kind
	}
	return &CachedRepository[T, C, P]{store: store, cache: c, opts: opts}
}

func (r *CachedRepository[T, C, P]) entityKey(id uint64) string {
	return r.opts.Keys.Entity(r.opts.Kind, id)
}

func (r *CachedRepository[T, C, P]) collectionKey() string {
	return r.opts.Keys.Collection(r.opts.Collection)
}

// Get returns the row with id, from cache when fresh.
func (r *CachedRepository[T, C, P]) Get(ctx context.Context, id uint64) (*T, error) {
	key := r.entityKey(id)
	var cached T
	hit, err := r.lookup(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		return &cached, nil
	}

	row, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, "load "+r.opts.Kind)
	}
	if row == nil {
		return nil, apperr.New(apperr.NotFound, r.opts.Label+" not found.")
	}
	if err := r.fill(ctx, key, row); err != nil {
		return nil, err
	}
	return row, nil
}

// List returns every row, newest first, from cache when fresh.
func (r *CachedRepository[T, C, P]) List(ctx context.Context) ([]T, error) {
	key := r.collectionKey()
	var cached []T
	hit, err := r.lookup(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	rows, err := r.store.FindAll(ctx)
	if err != nil {
		return nil, classify(err, "list "+r.opts.Collection)
	}
	if rows == nil {
		rows = []T{}
	}
	if err := r.fill(ctx, key, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a row and drops the collection key. The single-row key is
// left to be filled by the next Get.
func (r *CachedRepository[T, C, P]) Create(ctx context.Context, data C) (*T, error) {
	row, err := r.store.Insert(ctx, data)
	if err != nil {
		return nil, classify(err, "insert "+r.opts.Kind)
	}
	if row == nil {
		return nil, apperr.New(apperr.CreationFailed, r.opts.Label+" creation failed.")
	}
	if err := r.Invalidate(ctx, r.collectionKey()); err != nil {
		return nil, err
	}
	return row, nil
}

// Update applies patch to the row with id and drops its keys.
func (r *CachedRepository[T, C, P]) Update(ctx context.Context, id uint64, patch P) (*T, error) {
	row, err := r.store.Update(ctx, id, patch)
	if err != nil {
		return nil, classify(err, "update "+r.opts.Kind)
	}
	if row == nil {
		return nil, apperr.New(apperr.UpdateFailed, r.opts.Label+" update failed.")
	}
	if err := r.Invalidate(ctx, r.writeKeys(id, row)...); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes the row with id, drops its keys and returns the snapshot
// taken before deletion.
func (r *CachedRepository[T, C, P]) Delete(ctx context.Context, id uint64) (*T, error) {
	row, err := r.store.Delete(ctx, id)
	if err != nil {
		return nil, classify(err, "delete "+r.opts.Kind)
	}
	if row == nil {
		return nil, apperr.New(apperr.NotFound, r.opts.Label+" not found or already deleted.")
	}
	if err := r.Invalidate(ctx, r.writeKeys(id, row)...); err != nil {
		return nil, err
	}
	return row, nil
}

// Invalidate deletes keys from the cache. It runs after the store write has
// returned, never concurrently with it.
func (r *CachedRepository[T, C, P]) Invalidate(ctx context.Context, keys ...string) error {
	if err := r.cache.Del(ctx, keys...); err != nil {
		return apperr.Wrap(apperr.Internal, err, "invalidate cache")
	}
	return nil
}

// Store exposes the underlying store for reads that must bypass the cache.
func (r *CachedRepository[T, C, P]) Store() Store[T, C, P] { return r.store }

func (r *CachedRepository[T, C, P]) writeKeys(id uint64, row *T) []string {
	keys := []string{r.entityKey(id), r.collectionKey()}
	if r.opts.Dependents != nil {
		keys = append(keys, r.opts.Dependents(row)...)
	}
	return keys
}

// lookup decodes key into dst. A corrupt entry counts as a miss and is
// overwritten by the following fill.
func (r *CachedRepository[T, C, P]) lookup(ctx context.Context, key string, dst any) (bool, error) {
	s, err := r.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, err, "read cache")
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *CachedRepository[T, C, P]) fill(ctx context.Context, key string, v any) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "encode cache entry")
	}
	if err := r.cache.Set(ctx, key, string(bs), r.opts.TTL); err != nil {
		return apperr.Wrap(apperr.Internal, err, "write cache")
	}
	return nil
}
