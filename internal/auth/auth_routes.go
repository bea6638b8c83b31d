package auth

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"leavedesk/internal/config"
	"leavedesk/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, cfg config.Config) {
	limit := rate.Limit(cfg.AuthRateLimit)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", middleware.RateLimitByIP(limit, cfg.AuthRateBurst), handler.Signup)
		auth.POST("/login", middleware.RateLimitByIP(limit, cfg.AuthRateBurst), handler.Login)
		auth.GET("/me", middleware.AuthMiddleware(cfg), handler.Me)
	}
}
