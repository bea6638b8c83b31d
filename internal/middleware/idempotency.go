package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"leavedesk/internal/shared/response"
)

const (
	ContextIdempotencyCacheKey = "idempotency_cache_key"
	ContextIdempotencyLockKey  = "idempotency_lock_key"
)

// Idempotency replays the cached response for a repeated POST carrying
// the same Idempotency-Key, and takes a short-lived redis lock so two
// in-flight duplicates cannot both reach the handler. The handler is
// responsible for storing its response under the cache key and
// releasing the lock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString(ContextUserID)

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.AbortWithStatusJSON(http.StatusOK, response.Envelope{
					Success: true,
					Message: "Request already processed",
					Data:    cached,
				})
				return
			}
		}

		// Lock expires on its own so a crashed handler cannot wedge the
		// key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, "A request with this idempotency key is already being processed", nil)
			c.Abort()
			return
		}

		c.Set(ContextIdempotencyCacheKey, cacheKey)
		c.Set(ContextIdempotencyLockKey, lockKey)

		c.Next()
	}
}
