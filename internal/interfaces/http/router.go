// Package http wires the HTTP surface: routes, middleware, and handlers.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keygate-app/keygate/internal/interfaces/http/handlers"
	"github.com/keygate-app/keygate/internal/interfaces/http/middleware"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// RouterConfig carries everything the router needs to assemble the routes.
type RouterConfig struct {
	ActivationHandler *handlers.ActivationHandler
	AdminAuthHandler  *handlers.AdminAuthHandler
	AdminHandler      *handlers.AdminHandler
	AdminHubHandler   *handlers.AdminHubHandler

	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter

	AllowedOrigins []string
	Logger         logger.Interface
}

// NewRouter builds the Gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(cfg.Logger))
	engine.Use(middleware.CORS(cfg.AllowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mobile := engine.Group("/api/subscription")
	if cfg.RateLimiter != nil {
		mobile.Use(cfg.RateLimiter.Limit())
	}
	{
		mobile.POST("/request", cfg.ActivationHandler.RequestActivation)
		mobile.POST("/check", cfg.ActivationHandler.CheckStatus)
	}

	admin := engine.Group("/api/admin")
	{
		admin.POST("/login", cfg.AdminAuthHandler.Login)
		admin.POST("/signup", cfg.AdminAuthHandler.Signup)

		protected := admin.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.GET("/me", cfg.AdminAuthHandler.Me)
			protected.GET("/pending", cfg.AdminHandler.ListPending)
			protected.POST("/validate/:device_id", cfg.AdminHandler.Validate)
			protected.DELETE("/clear", cfg.AdminHandler.ClearPending)
			protected.GET("/validations", cfg.AdminHandler.ListValidations)
			protected.GET("/validations/mine", cfg.AdminHandler.MyValidations)
			protected.GET("/clients", cfg.AdminHandler.ListClients)
			protected.GET("/clients/:device_id/history", cfg.AdminHandler.ClientHistory)
		}
	}

	// Token is carried in the query string; browsers cannot set headers on
	// WebSocket connections.
	engine.GET("/ws/admin", cfg.AdminHubHandler.Serve)

	return engine
}
