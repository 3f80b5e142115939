package handler // handler adapts HTTP requests onto the service layer

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/storefront/internal/apperr"
)

// envelope is the body of every response.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, envelope{Status: "success", Message: msg, Data: data})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.ValidationFailed:
		return http.StatusBadRequest
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Field errors, when present, become
// the data member. Causes of server errors are logged, not returned.
func fail(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	code := StatusOf(kind)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", kind.String()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")
	}
	var data any
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		data = fields
	}
	return c.JSON(code, envelope{Status: "error", Message: apperr.Message(err), Data: data})
}

// bind decodes the JSON body into dst. A malformed body is a validation
// failure.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("Invalid request body.", nil)
	}
	return nil
}

// pathID parses the :id parameter. Non-numeric ids yield 0, which every
// operation rejects as invalid.
func pathID(c echo.Context) uint64 {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
