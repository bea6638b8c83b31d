package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leavedesk/internal/domain"
	"leavedesk/internal/shared/response"
)

// PolicyService is a local interface so the middleware does not depend
// on the policy package directly.
type PolicyService interface {
	Permit(req domain.EnforceRequest) (bool, error)
}

// Authorize gates a route on the authorization policy. It runs after
// AuthMiddleware and denies with 403 before the handler is invoked.
func Authorize(service PolicyService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
			c.Abort()
			return
		}

		allowed, err := service.Permit(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
