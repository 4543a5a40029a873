package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is the liveness probe used by load balancers.  It pings the store
// and answers "ok" with 200, or 503 when the database cannot be reached.
func (h *Handler) Health(c echo.Context) error {
	if err := h.Booking.DB.PingContext(c.Request().Context()); err != nil { // store unreachable
		h.Logger.Warn("health check failed", "error", err)
		return c.String(http.StatusServiceUnavailable, "unavailable")
	}
	return c.String(http.StatusOK, "ok") // write "ok" with a 200 OK status
}
