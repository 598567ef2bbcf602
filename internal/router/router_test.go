package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/iliyamo/entityhub/internal/handler"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler(zap.NewNop())
	RegisterRoutes(e, Handlers{
		Health:     handler.Health(nil),
		Auth:       &handler.AuthHandler{},
		Entities:   &handler.EntityHandler{},
		Activities: &handler.ActivityHandler{},
		Users:      &handler.UserHandler{},
		Helpers:    &handler.HelperHandler{},
	}, Options{})
	return e
}

func TestRegisterRoutes(t *testing.T) {
	e := newEcho()

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /v1/auth/login",
		"POST /v1/auth/register",
		"POST /v1/auth/social-register",
		"POST /v1/auth/refresh",
		"POST /v1/auth/logout",
		"GET /v1/auth/profile",
		"POST /v1/auth/forgot-password",
		"POST /v1/auth/reset-password",
		"GET /v1/entities",
		"GET /v1/entities/by-user-id/:userId",
		"PATCH /v1/entities/:id",
		"GET /v1/activities/types",
		"DELETE /v1/activities/:id",
		"GET /v1/users",
		"DELETE /v1/users/:id",
		"GET /v1/helpers/paginated",
		"GET /v1/helpers/entities",
		"GET /v1/helpers/fields/:entity",
	} {
		assert.True(t, got[want], want)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newEcho()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/auth/profile"},
		{http.MethodPost, "/v1/entities"},
		{http.MethodPatch, "/v1/activities/a-1"},
		{http.MethodGet, "/v1/users"},
		{http.MethodGet, "/v1/helpers/entities"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}
