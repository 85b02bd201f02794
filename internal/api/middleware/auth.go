package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/api/handler"
	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

var errNoToken = domain.NewError(domain.ErrUnauthenticated, "no token, authorization denied")

// Auth verifies the bearer token and injects the caller identity into context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return errNoToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrInvalidToken
			}
			token := strings.TrimSpace(parts[1])

			id, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(handler.CtxUserID, id.UserID)
			c.Set(handler.CtxRole, id.Role)
			c.Set(handler.CtxToken, token)

			return next(c)
		}
	}
}
