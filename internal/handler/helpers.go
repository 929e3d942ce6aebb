package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
)

// actorID extracts the authenticated user ID stored in context by the
// JWT middleware. The claim arrives as float64 from MapClaims or as a
// string depending on the issuer; both are handled. Zero means no
// authenticated user.
func actorID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// respondError translates an engine error into an HTTP response.
// Domain errors carry their own status hint; anything else is an
// internal failure that must not leak details to the client.
func respondError(c echo.Context, err error) error {
	if de, ok := booking.AsDomain(err); ok {
		return c.JSON(de.Status, echo.Map{"error": de.Message})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, booking.Validation("invalid id")
	}
	return id, nil
}
