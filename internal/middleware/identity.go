package middleware

// identity.go derives a stable caller identifier for rate limiting and
// request logs without decoding the token.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/utils"
)

// callerID returns a short digest of the bearer token, or "anon" when the
// request carries none. The raw token never reaches Redis keys or logs.
func callerID(c echo.Context) string {
	tok := Token(c)
	if tok == "" {
		return "anon"
	}
	return "tok_" + utils.HashToken(tok)[:16]
}
