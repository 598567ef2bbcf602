// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/entityhub/internal/config"
	"github.com/iliyamo/entityhub/internal/handler"
	"github.com/iliyamo/entityhub/internal/middleware"
	"github.com/iliyamo/entityhub/internal/model"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Health     echo.HandlerFunc
	Auth       *handler.AuthHandler
	Entities   *handler.EntityHandler
	Activities *handler.ActivityHandler
	Users      *handler.UserHandler
	Helpers    *handler.HelperHandler
}

// Options carries the shared middleware dependencies. A nil Redis client
// disables rate limiting and caching.
type Options struct {
	Tokens    middleware.AccessParser
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
}

// RegisterRoutes mounts the health check and the /v1 API.
func RegisterRoutes(e *echo.Echo, h Handlers, opt Options) {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.GET("/healthz", h.Health)

	auth := middleware.JWTAuth(opt.Tokens)
	admin := middleware.RequireRole(model.RoleAdmin)

	a := e.Group("/v1/auth", middleware.NewTokenBucket(opt.RateLimit, opt.Redis, log))
	a.POST("/login", h.Auth.Login)
	a.POST("/register", h.Auth.Register)
	a.POST("/social-register", h.Auth.SocialRegister)
	a.POST("/refresh", h.Auth.Refresh)
	a.POST("/forgot-password", h.Auth.ForgotPassword)
	a.POST("/reset-password", h.Auth.ResetPassword)
	a.POST("/logout", h.Auth.Logout, auth)
	a.GET("/profile", h.Auth.Profile, auth)

	// Public lists are cached per group; writes in the same group bump its
	// generation. Activities embed no user data, so a user update leaves
	// them alone.
	entCache := middleware.NewResponseCache(opt.Cache, opt.Redis, "entities", log)
	ent := e.Group("/v1/entities")
	ent.GET("", h.Entities.FindAll, entCache.Middleware())
	ent.GET("/by-user-id/:userId", h.Entities.FindByUserID, entCache.Middleware())
	ent.GET("/:id", h.Entities.FindOne, entCache.Middleware())
	ent.POST("", h.Entities.Create, auth, entCache.Invalidate())
	ent.PATCH("/:id", h.Entities.Update, auth, entCache.Invalidate())
	ent.DELETE("/:id", h.Entities.Remove, auth, entCache.Invalidate())

	actCache := middleware.NewResponseCache(opt.Cache, opt.Redis, "activities", log)
	act := e.Group("/v1/activities")
	act.GET("", h.Activities.FindAll, actCache.Middleware())
	act.GET("/types", h.Activities.FindAllTypes, actCache.Middleware())
	act.GET("/by-user-id/:userId", h.Activities.FindByUserID, actCache.Middleware())
	act.GET("/:id", h.Activities.FindOne, actCache.Middleware())
	act.POST("", h.Activities.Create, auth, actCache.Invalidate())
	act.PATCH("/:id", h.Activities.Update, auth, actCache.Invalidate())
	act.DELETE("/:id", h.Activities.Remove, auth, actCache.Invalidate())

	u := e.Group("/v1/users", auth)
	u.GET("", h.Users.FindAll, admin)
	u.GET("/:id", h.Users.FindOne)
	u.PATCH("/:id", h.Users.Update)
	// Deleting a user cascades to their entities and activities.
	u.DELETE("/:id", h.Users.Remove, entCache.Invalidate(), actCache.Invalidate())

	hp := e.Group("/v1/helpers", auth, admin)
	hp.GET("/paginated", h.Helpers.Paginated)
	hp.GET("/entities", h.Helpers.Entities)
	hp.GET("/fields/:entity", h.Helpers.Fields)
}
