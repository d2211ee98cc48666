package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/api/middleware"
	"github.com/userhub/identity-system/internal/core/domain"
)

// ctxIdentity extracts the identity attached by the request gate. Presence
// proves the gate ran and allowed the request; its absence on a guarded
// route is a wiring bug surfaced as 401 rather than a panic.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.IdentityKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
