package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GTDGit/offline_console/internal/handler"
	"github.com/GTDGit/offline_console/internal/middleware"
)

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Preference *handler.PreferenceHandler
	Activity   *handler.ActivityHandler
	Inventory  *handler.InventoryHandler
	Stocks     *handler.StocksHandler
	Billing    *handler.BillingHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, rateLimiter *middleware.InvalidAuthRateLimiter) {
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	console := router.Group("/console/v1")
	console.POST("/auth/login", middleware.LoginThrottle(rateLimiter), handlers.Auth.Login)

	authed := console.Group("")
	authed.Use(jwtMiddleware.Handle())
	{
		authed.POST("/auth/logout", handlers.Auth.Logout)
		authed.GET("/preferences/theme", handlers.Preference.GetTheme)
		authed.PUT("/preferences/theme", handlers.Preference.SetTheme)
		authed.GET("/activity", handlers.Activity.List)

		handlers.Inventory.Register(authed.Group("/inventory"))
		handlers.Stocks.Register(authed.Group("/stocks"))
		handlers.Billing.Register(authed.Group("/billing"))
	}
}
