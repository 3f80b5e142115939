package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/cache"
	"github.com/iliyamo/storefront/internal/cache/cachetest"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/policy"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/repository/repofake"
	"github.com/iliyamo/storefront/internal/service"
)

const (
	testSecret = "test-secret"
	testCost   = 4 // bcrypt.MinCost keeps hashing fast
)

type recorder struct {
	mu     sync.Mutex
	events []queue.EntityChangedEvent
	err    error
}

func (r *recorder) PublishEntityChanged(_ context.Context, ev queue.EntityChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) last() queue.EntityChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	redis      *miniredis.Miniredis
	tokens     *service.TokenService
	userStore  *repofake.UserStore
	users      *service.UserService
	products   *service.ProductService
	categories *service.CategoryService
	events     *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr, kv := cachetest.New(t)
	keys := cache.Keys{}
	tokens := service.NewTokenService(testSecret, 0, service.NewRevocationList(kv, keys))
	pol := policy.New(tokens)
	events := &recorder{}

	userStore := repofake.NewUserStore()
	productStore := repofake.NewProductStore()
	categoryStore := repofake.NewCategoryStore()
	repofake.Link(productStore, categoryStore)

	return &fixture{
		redis:      mr,
		tokens:     tokens,
		userStore:  userStore,
		events:     events,
		users:      service.NewUserService(repository.NewUserRepository(userStore, kv, keys, time.Minute), tokens, pol, testCost, events),
		products:   service.NewProductService(repository.NewProductRepository(productStore, kv, keys, time.Minute), pol, events),
		categories: service.NewCategoryService(repository.NewCategoryRepository(categoryStore, kv, keys, time.Minute), pol, events),
	}
}

func (f *fixture) token(t *testing.T, id uint64, role model.Role) string {
	t.Helper()
	issued, err := f.tokens.Issue(id, role)
	require.NoError(t, err)
	return issued.Token
}

func strPtr(s string) *string { return &s }
