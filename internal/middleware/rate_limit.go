package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"leavedesk/internal/shared/response"
)

type keyedLimiter struct {
	limiters map[string]*rate.Limiter
	mu       *sync.Mutex
	r        rate.Limit
	b        int
}

func newKeyedLimiter(r rate.Limit, b int) *keyedLimiter {
	return &keyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		mu:       &sync.Mutex{},
		r:        r,
		b:        b,
	}
}

func (k *keyedLimiter) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(k.r, k.b)
		k.limiters[key] = limiter
	}

	return limiter
}

// RateLimitByIP throttles a route per client IP. Used on the public
// auth routes where no caller identity exists yet.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newKeyedLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByUser throttles per authenticated user; unauthenticated
// requests pass through to the next middleware.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newKeyedLimiter(r, b)
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.Next()
			return
		}
		if !limiter.get(userID).Allow() {
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
