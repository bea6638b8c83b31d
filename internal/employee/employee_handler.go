package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leavedesk/internal/middleware"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetProfile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), caller.ID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", resp)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication is required", nil)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), caller.ID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", resp)
}
