// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"campus/internal/delivery/http/middleware"
	"campus/internal/delivery/http/router/handler"
	"campus/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler   *handler.AuthHandler
	PortalHandler *handler.PortalHandler
	Guard         *middleware.GuardMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler   *handler.AuthHandler
	portalHandler *handler.PortalHandler
	guard         *middleware.GuardMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:   params.AuthHandler,
		portalHandler: params.PortalHandler,
		guard:         params.Guard,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/session", r.authHandler.Session)
		authGroup.POST("/clear-error", r.authHandler.ClearError)
	}

	// Student-level routes: any authenticated user qualifies.
	learnGroup := e.Group("/learn")
	learnGroup.Use(r.guard.RequireAuth)
	learnGroup.Use(r.guard.RequireRole(entity.RoleStudent))
	{
		learnGroup.GET("", r.portalHandler.Learn)
	}

	// Instructor-level routes: instructors and admins.
	teachGroup := e.Group("/teach")
	teachGroup.Use(r.guard.RequireAuth)
	teachGroup.Use(r.guard.RequireRole(entity.RoleInstructor))
	{
		teachGroup.GET("", r.portalHandler.Teach)
	}

	// Admin-only routes.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.guard.RequireAuth)
	adminGroup.Use(r.guard.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("", r.portalHandler.Admin)
	}
}
