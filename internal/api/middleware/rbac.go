package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/api/handler"
	"github.com/bookquest/bookquest-api/internal/core/authz"
	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.CtxRole).(string)
			userID, _ := c.Get(handler.CtxUserID).(string)
			if err := authz.RequireRole(domain.Identity{UserID: userID, Role: role}, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
