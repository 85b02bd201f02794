package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

// Context keys set by the Auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxToken  = "token"
)

var errNoIdentity = domain.NewError(domain.ErrUnauthenticated, "authentication required")

// ctxIdentity extracts the caller identity injected by the Auth middleware.
// A missing user id means the middleware did not run.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	userID, _ := c.Get(CtxUserID).(string)
	role, _ := c.Get(CtxRole).(string)
	if userID == "" {
		return domain.Identity{}, errNoIdentity
	}
	return domain.Identity{UserID: userID, Role: role}, nil
}
