package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/urlcut/urlcut-backend/internal/handlers"
	"github.com/urlcut/urlcut-backend/internal/middleware"
)

// RegisterMappingRoutes registers the API surface for creating and
// inspecting mappings.
func RegisterMappingRoutes(r gin.IRouter) {
	// Anonymous shorten with forced 24h expiry
	r.POST("/guest/shorten", middleware.GuestRateLimit(), handlers.CreateGuestMapping)

	protected := r.Group("", middleware.AuthMiddleware())
	{
		protected.POST("/shorten", handlers.CreateMapping)
		protected.GET("/keys", handlers.ListMappings)
		protected.GET("/keys/:key", handlers.GetMapping)
	}
}

// RegisterRedirectRoutes registers the root redirection route.
// Wildcard last so it cannot shadow /api or /health.
func RegisterRedirectRoutes(r *gin.Engine) {
	r.GET("/:key", handlers.ForwardToTarget)
}
