package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"leavedesk/internal/config"
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"
	"leavedesk/internal/policy"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, cfg config.Config, p policy.Service, rdb *redis.Client) {
	writeLimit := middleware.RateLimitByUser(rate.Limit(cfg.WriteRateLimit), cfg.WriteRateBurst)

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(cfg))
	{
		leaves.POST("/apply",
			writeLimit,
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionCreate),
			middleware.Idempotency(rdb),
			h.Apply,
		)
		leaves.GET("/my-leaves",
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionReadOwn),
			h.MyLeaves,
		)
		leaves.GET("/all",
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionReadAll),
			h.AllLeaves,
		)
		leaves.PATCH("/:id/approve",
			writeLimit,
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionDecide),
			h.Approve,
		)
		leaves.PATCH("/:id/reject",
			writeLimit,
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionDecide),
			h.Reject,
		)
	}
}

// RegisterEmployerRoutes mounts the employer-facing aliases under
// /employer; same handlers, stricter gate.
func RegisterEmployerRoutes(r *gin.RouterGroup, h *Handler, cfg config.Config, p policy.Service) {
	employer := r.Group("/employer")
	employer.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RequireRoles(domain.RoleEmployer),
	)
	{
		employer.GET("/dashboard",
			middleware.Authorize(p, policy.ResourceDashboard, policy.ActionRead),
			h.Dashboard,
		)
		employer.GET("/leaves",
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionReadAll),
			h.AllLeaves,
		)
		employer.PATCH("/leaves/:id/approve",
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionDecide),
			h.Approve,
		)
		employer.PATCH("/leaves/:id/reject",
			middleware.Authorize(p, policy.ResourceLeave, policy.ActionDecide),
			h.Reject,
		)
	}
}
