package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"leavedesk/internal/shared/contextutil"
)

// ContextLogger decorates the request context with a logger carrying
// the request id and, when authenticated, the user id, so services and
// repositories can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// Reuse the id RequestID already put on the context; only
		// generate one when this middleware runs alone.
		rid := contextutil.GetRequestID(ctx)
		if rid == "" {
			rid = uuid.New().String()
			ctx = contextutil.WithRequestID(ctx, rid)
			c.Header("X-Request-ID", rid)
		}

		uid := c.GetString(ContextUserID)

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("user_id", uid),
		)

		ctx = contextutil.WithUserID(ctx, uid)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
