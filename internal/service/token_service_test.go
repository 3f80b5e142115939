package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/cache"
	"github.com/iliyamo/storefront/internal/cache/cachetest"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/service"
	"github.com/iliyamo/storefront/internal/utils"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTokens(t *testing.T) (*service.TokenService, *miniredis.Miniredis, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	mr, c := cachetest.New(t)
	svc := service.NewTokenService(testSecret, 0, service.NewRevocationList(c, cache.Keys{})).WithClock(clk.Now)
	return svc, mr, clk
}

func TestIssueVerify(t *testing.T) {
	svc, _, clk := newTokens(t)

	issued, err := svc.Issue(42, model.RoleSeller)
	require.NoError(t, err)
	require.Equal(t, clk.now.Add(service.DefaultTokenTTL), issued.ExpiresAt)

	p, err := svc.Verify(context.Background(), issued.Token)
	require.NoError(t, err)
	require.Equal(t, model.Principal{ID: 42, Role: model.RoleSeller}, p)
}

func TestVerifyRejects(t *testing.T) {
	ctx := context.Background()
	svc, _, clk := newTokens(t)

	issued, err := svc.Issue(1, model.RoleCustomer)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Verify(ctx, "")
		require.True(t, apperr.Is(err, apperr.Unauthorized))
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := svc.Verify(ctx, issued.Token+"x")
		require.True(t, apperr.Is(err, apperr.Unauthorized))
	})

	t.Run("other secret", func(t *testing.T) {
		at, err := utils.NewAccessToken("another", 1, "customer", clk.now, time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(ctx, at.Token)
		require.True(t, apperr.Is(err, apperr.Unauthorized))
	})

	t.Run("unknown role", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 1, "root", clk.now, time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(ctx, at.Token)
		require.True(t, apperr.Is(err, apperr.Unauthorized))
		require.True(t, errors.Is(err, service.ErrInvalidRole))
	})

	t.Run("expired", func(t *testing.T) {
		saved := clk.now
		defer func() { clk.now = saved }()
		clk.now = clk.now.Add(service.DefaultTokenTTL + time.Second)
		_, err := svc.Verify(ctx, issued.Token)
		require.True(t, apperr.Is(err, apperr.Unauthorized))
	})
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc, mr, clk := newTokens(t)

	issued, err := svc.Issue(7, model.RoleAdmin)
	require.NoError(t, err)

	clk.now = clk.now.Add(24 * time.Hour)
	require.NoError(t, svc.Revoke(ctx, issued.Token))

	key := cache.Keys{}.Revoked(issued.Token)
	require.True(t, mr.Exists(key))
	require.Equal(t, 6*24*time.Hour, mr.TTL(key), "marker lives as long as the token")

	_, err = svc.Verify(ctx, issued.Token)
	require.True(t, apperr.Is(err, apperr.Unauthorized))
	require.True(t, errors.Is(err, service.ErrTokenRevoked))
	require.Equal(t, "Token is invalid. Please log in again.", apperr.Message(err))

	other, err := svc.Issue(8, model.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, other.Token)
	require.NoError(t, err, "revocation is per token")
}

func TestRevokeInvalidToken(t *testing.T) {
	ctx := context.Background()
	svc, mr, _ := newTokens(t)

	verr := func() error { _, err := svc.Verify(ctx, "garbage"); return err }()
	rerr := svc.Revoke(ctx, "garbage")
	require.Error(t, rerr)
	require.Equal(t, apperr.KindOf(verr), apperr.KindOf(rerr))
	require.Equal(t, apperr.Message(verr), apperr.Message(rerr))
	require.False(t, mr.Exists(cache.Keys{}.Revoked("garbage")))
}

func TestTTLIsClamped(t *testing.T) {
	_, c := cachetest.New(t)
	svc := service.NewTokenService(testSecret, 30*24*time.Hour, service.NewRevocationList(c, cache.Keys{}))

	start := time.Now()
	issued, err := svc.Issue(1, model.RoleCustomer)
	require.NoError(t, err)
	require.WithinDuration(t, start.Add(service.DefaultTokenTTL), issued.ExpiresAt, 2*time.Second)
}
