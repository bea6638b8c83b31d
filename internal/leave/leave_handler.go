package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leavedesk/internal/middleware"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(s Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: s, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Message, httpErr.Details)
}

func (h *Handler) Apply(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), caller, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, resp)
	response.Success(c, http.StatusCreated, "Leave application submitted successfully", resp)
}

func (h *Handler) MyLeaves(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	leaves, page, err := h.service.ListMine(c.Request.Context(), caller, listQueryFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leaves retrieved successfully", gin.H{
		"leaves":     leaves,
		"pagination": page,
	})
}

func (h *Handler) AllLeaves(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	leaves, page, err := h.service.ListAll(c.Request.Context(), caller, listQueryFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leaves retrieved successfully", gin.H{
		"leaves":     leaves,
		"pagination": page,
	})
}

func (h *Handler) Dashboard(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	stats, err := h.service.DashboardStats(c.Request.Context(), caller)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, StatusApproved)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, StatusRejected)
}

func (h *Handler) decide(c *gin.Context, target string) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	var (
		resp LeaveResponse
		err  error
	)
	if target == StatusApproved {
		resp, err = h.service.Approve(c.Request.Context(), caller, c.Param("id"))
	} else {
		resp, err = h.service.Reject(c.Request.Context(), caller, c.Param("id"))
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	message := "Leave request approved successfully"
	if target == StatusRejected {
		message = "Leave request rejected successfully"
	}
	response.Success(c, http.StatusOK, message, resp)
}

// finishIdempotent stores the successful response under the request's
// idempotency cache key and releases the in-flight lock. Failed
// requests keep nothing cached, so the client may retry them.
func (h *Handler) finishIdempotent(c *gin.Context, resp LeaveResponse) {
	cacheKey := c.GetString(middleware.ContextIdempotencyCacheKey)
	if cacheKey == "" || h.rdb == nil {
		return
	}

	ctx := c.Request.Context()
	if payload, err := json.Marshal(resp); err == nil {
		if err := h.rdb.Set(ctx, cacheKey, payload, idempotencyCacheTTL).Err(); err != nil {
			h.logger.Warn("idempotency cache write failed", zap.Error(err))
		}
	}
	if lockKey := c.GetString(middleware.ContextIdempotencyLockKey); lockKey != "" {
		if err := h.rdb.Del(ctx, lockKey).Err(); err != nil {
			h.logger.Warn("idempotency lock release failed", zap.Error(err))
		}
	}
}

func listQueryFrom(c *gin.Context) ListQuery {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = defaultLimit
	}
	return ListQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
}
