package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"leavedesk/internal/middleware"
)

func newIdempotentRouter(t *testing.T) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	r := gin.New()
	r.POST("/leaves/apply",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, "user-1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"handled": true})
		},
	)
	return r, mock
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	r, mock := newIdempotentRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leaves/apply", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	r, mock := newIdempotentRouter(t)

	cacheKey := "idemp:/leaves/apply:user-1:abc"
	mock.ExpectGet(cacheKey).SetVal(`{"id":"cached-leave"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leaves/apply", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Request already processed")
	assert.Contains(t, w.Body.String(), "cached-leave")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicateConflicts(t *testing.T) {
	r, mock := newIdempotentRouter(t)

	cacheKey := "idemp:/leaves/apply:user-1:abc"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leaves/apply", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FirstRequestTakesLock(t *testing.T) {
	r, mock := newIdempotentRouter(t)

	cacheKey := "idemp:/leaves/apply:user-1:abc"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leaves/apply", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
