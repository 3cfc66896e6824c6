package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/api/middleware"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// ctxBuyer extracts the identity bound by the request gate. The policy has
// already required authentication on purchase routes, so a missing binding
// here means the gate did not run: reject with 401 rather than proceed
// anonymously.
func ctxBuyer(c echo.Context) (ports.Buyer, error) {
	email, _ := c.Get(middleware.ContextEmail).(string)
	if email == "" {
		return ports.Buyer{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	role, _ := c.Get(middleware.ContextRole).(string)
	id, _ := c.Get(middleware.ContextPrincipalID).(int)

	return ports.Buyer{ID: id, Email: email, Role: role}, nil
}
