package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

// RoleGuard is the set of roles allowed through a route.
type RoleGuard map[model.Role]bool

// Allows reports whether role is in the set.
func (g RoleGuard) Allows(role model.Role) bool { return g[role] }

// RequireRole rejects callers whose role is not listed. It must run after
// JWTAuth.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	guard := make(RoleGuard, len(roles))
	for _, r := range roles {
		guard[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := Actor(c)
			if !ok {
				return errs.New(errs.ErrUnauthorized, "Missing bearer token")
			}
			if !guard.Allows(actor.Role) {
				return errs.New(errs.ErrForbidden, errs.MsgForbidden)
			}
			return next(c)
		}
	}
}
