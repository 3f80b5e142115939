package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/cache"
	"github.com/iliyamo/storefront/internal/model"
)

type (
	ProductRepository  = CachedRepository[model.Product, model.NewProduct, model.ProductPatch]
	CategoryRepository = CachedRepository[model.Category, model.NewCategory, model.CategoryPatch]
)

// NewProductRepository caches products under product:{id} and all_products.
func NewProductRepository(store Store[model.Product, model.NewProduct, model.ProductPatch], c cache.Cache, keys cache.Keys, ttl time.Duration) *ProductRepository {
	return NewCachedRepository(store, c, Options[model.Product]{
		Kind: "product", Collection: "products", Label: "Product", TTL: ttl, Keys: keys,
	})
}

// NewCategoryRepository caches categories under category:{id} and
// all_categories. Deleting a category cascades to its products in the store,
// so the product collection key and the key of every cascaded product are
// dropped with it.
func NewCategoryRepository(store Store[model.Category, model.NewCategory, model.CategoryPatch], c cache.Cache, keys cache.Keys, ttl time.Duration) *CategoryRepository {
	return NewCachedRepository(store, c, Options[model.Category]{
		Kind: "category", Collection: "categories", Label: "Category", TTL: ttl, Keys: keys,
		Dependents: func(cat *model.Category) []string {
			out := []string{keys.Collection("products")}
			for _, id := range cat.ProductIDs {
				out = append(out, keys.Entity("product", id))
			}
			return out
		},
	})
}

// UserStorer is the users table surface, including the credential lookup
// used by login.
type UserStorer interface {
	Store[model.User, model.NewUser, model.UserPatch]
	FindCredentialsByEmail(ctx context.Context, email string) (*model.UserCredentials, error)
}

// UserRepository is the cached user repository plus an email-keyed
// credential cache. Updates and deletes drop the email key of the row they
// touched.
type UserRepository struct {
	*CachedRepository[model.User, model.NewUser, model.UserPatch]
	users UserStorer
	cache cache.Cache
	keys  cache.Keys
	ttl   time.Duration
}

func NewUserRepository(store UserStorer, c cache.Cache, keys cache.Keys, ttl time.Duration) *UserRepository {
	base := NewCachedRepository(store, c, Options[model.User]{
		Kind: "user", Collection: "users", Label: "User", TTL: ttl, Keys: keys,
		Dependents: func(u *model.User) []string {
			return []string{keys.UserEmail(normalizeEmail(u.Email))}
		},
	})
	return &UserRepository{CachedRepository: base, users: store, cache: c, keys: keys, ttl: base.opts.TTL}
}

// CredentialsByEmail returns the user row with its password hash. The
// result is cached under user_email:{email}. An unknown email is NotFound.
func (r *UserRepository) CredentialsByEmail(ctx context.Context, email string) (*model.UserCredentials, error) {
	email = normalizeEmail(email)
	key := r.keys.UserEmail(email)

	s, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var c model.UserCredentials
		if json.Unmarshal([]byte(s), &c) == nil {
			return &c, nil
		}
	case !errors.Is(err, cache.ErrMiss):
		return nil, apperr.Wrap(apperr.Internal, err, "read cache")
	}

	c, err := r.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, classify(err, "load user by email")
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "User not found.")
	}
	bs, err := json.Marshal(c)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "encode cache entry")
	}
	if err := r.cache.Set(ctx, key, string(bs), r.ttl); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "write cache")
	}
	return c, nil
}

// EmailTaken reports whether a user with email exists, reading the store
// directly.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	c, err := r.users.FindCredentialsByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, classify(err, "load user by email")
	}
	return c != nil, nil
}

// EmailKey exposes the credential key for email.
func (r *UserRepository) EmailKey(email string) string {
	return r.keys.UserEmail(normalizeEmail(email))
}
