package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/regadio/regadio-api/internal/auth"
)

// RequirePermission enforces that the authenticated principal's role grants
// the given action per the static role-permission table.  It assumes JWTAuth
// ran earlier in the chain: a request with no resolved role is rejected with
// 401, a resolved role lacking the action with 403.
func RequirePermission(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
			}
			if !auth.HasPermission(role, action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
