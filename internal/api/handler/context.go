package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// ctxActor extracts the identity injected by the Auth middleware and
// fails fast before any service call:
//   - user_id and role must be non-empty (presence proves the middleware ran).
//   - role must be one of the known roles.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries an unknown role")
	}
	return domain.Actor{ID: id, Role: r}, nil
}
