// Package middleware holds the echo middleware shared by the HTTP routes.
// Failures are returned as errors and rendered by the application's
// HTTPErrorHandler.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/entityhub/internal/model"
)

const actorKey = "actor"

// SetActor stores the authenticated caller on the request context.
func SetActor(c echo.Context, claims model.Claims) { c.Set(actorKey, claims) }

// Actor returns the authenticated caller stored by JWTAuth.
func Actor(c echo.Context) (model.Claims, bool) {
	claims, ok := c.Get(actorKey).(model.Claims)
	return claims, ok && claims.ID != ""
}

// userID identifies the caller for rate limit keys; "anon" when the request
// is not authenticated.
func userID(c echo.Context) string {
	if claims, ok := Actor(c); ok {
		return claims.ID
	}
	return "anon"
}
