package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/urlcut/urlcut-backend/internal/handlers"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
}
