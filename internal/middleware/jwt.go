package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

// AccessParser verifies access tokens.
type AccessParser interface {
	ParseAccess(raw string) (model.Claims, error)
}

// JWTAuth validates the Bearer access token and stores its claims as the
// request actor. Handlers read them back with Actor.
func JWTAuth(tokens AccessParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(auth, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				return errs.New(errs.ErrUnauthorized, "Missing bearer token")
			}
			claims, err := tokens.ParseAccess(strings.TrimSpace(raw))
			if err != nil {
				return err
			}
			SetActor(c, claims)
			return next(c)
		}
	}
}
