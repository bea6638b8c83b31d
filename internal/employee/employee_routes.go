package employee

import (
	"github.com/gin-gonic/gin"

	"leavedesk/internal/config"
	"leavedesk/internal/middleware"
	"leavedesk/internal/policy"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, cfg config.Config, policyService policy.Service) {
	profile := r.Group("/employee")
	profile.Use(middleware.AuthMiddleware(cfg))
	{
		profile.GET("/profile", middleware.Authorize(policyService, policy.ResourceProfile, policy.ActionRead), h.GetProfile)
		profile.PATCH("/profile", middleware.Authorize(policyService, policy.ResourceProfile, policy.ActionUpdate), h.UpdateProfile)
	}
}
