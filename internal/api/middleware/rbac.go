package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/pkg/metrics"
	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// RequireOperation lets the request through only when the role injected by
// Auth may perform op. Services check again; this gate rejects early.
func RequireOperation(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.Can(domain.Role(role), op) {
				metrics.PermissionDenialsTotal.WithLabelValues(string(op), role).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireRole enforces a minimum rank in the role hierarchy.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.HasPermission(domain.Role(role), required) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
