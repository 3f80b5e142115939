package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/config"
)

func run(t *testing.T, header string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/v1/products")
	h := BearerToken()(func(echo.Context) error { return nil })
	require.NoError(t, h(c))
	return c
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc.def", Token(run(t, "Bearer abc.def")))
	require.Equal(t, "abc.def", Token(run(t, "bearer  abc.def ")))
	require.Empty(t, Token(run(t, "Basic Zm9vOmJhcg==")))
	require.Empty(t, Token(run(t, "")))
}

func TestCallerID(t *testing.T) {
	require.Equal(t, "anon", callerID(run(t, "")))

	id := callerID(run(t, "Bearer secret-token"))
	require.True(t, strings.HasPrefix(id, "tok_"))
	require.Len(t, id, 20)
	require.NotContains(t, id, "secret-token")
	require.Equal(t, id, callerID(run(t, "Bearer secret-token")))
}

func TestBuildRateKey(t *testing.T) {
	c := run(t, "")
	c.Request().RemoteAddr = "10.0.0.1:1234"

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	require.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))

	cfg.KeyStrategy = ""
	require.Equal(t, "rl:ip:10.0.0.1:caller:anon:route:GET /api/v1/products", buildRateKey(cfg, c))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	called := false
	h := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)(func(echo.Context) error {
		called = true
		return nil
	})
	require.NoError(t, h(run(t, "")))
	require.True(t, called)
}
