package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identihub/identity-service/internal/api/metrics"
	"github.com/identihub/identity-service/internal/core/domain"
	"github.com/identihub/identity-service/internal/core/service"
)

// RBAC enforces the authorization guard chain on the user resolved by Auth.
// The active check always runs before the role check; with no roles given,
// any active user passes.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	guard := service.NewGuard(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)

			switch err := guard.Authorize(user); err {
			case nil:
				return next(c)
			case domain.ErrAccountDisabled:
				metrics.AuthDenialsTotal.WithLabelValues("disabled").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, "inactive user account")
			case domain.ErrForbidden:
				metrics.AuthDenialsTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			default:
				metrics.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
		}
	}
}
