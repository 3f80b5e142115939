package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check is one dependency probed by the health endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health reports "ok" when every check passes and 503 otherwise. It is
// used by load balancers and monitoring.
func Health(checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for _, ch := range checks {
			if err := ch.Ping(ctx); err != nil {
				status[ch.Name] = err.Error()
				healthy = false
				continue
			}
			status[ch.Name] = "ok"
		}
		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, envelope{Status: "error", Message: "degraded", Data: status})
		}
		return ok(c, http.StatusOK, "ok", status)
	}
}
