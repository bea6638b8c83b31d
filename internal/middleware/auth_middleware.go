package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"leavedesk/internal/config"
	"leavedesk/internal/domain"
	"leavedesk/internal/shared/response"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware verifies the bearer token and loads the caller
// identity into the gin context. The signing secret comes from the
// config built at startup, never from ambient environment lookups.
func AuthMiddleware(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authentication token is required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			msg := "Invalid authentication token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				msg = "Authentication token has expired"
			}
			response.Error(c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		if !domain.ValidRole(role) {
			response.Error(c, http.StatusUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, email)
		c.Set(ContextRole, role)

		c.Next()
	}
}

// CallerFromContext rebuilds the authenticated identity the middleware
// stored. The bool is false when AuthMiddleware did not run.
func CallerFromContext(c *gin.Context) (domain.Caller, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return domain.Caller{}, false
	}
	return domain.Caller{
		ID:    userID,
		Email: c.GetString(ContextEmail),
		Role:  c.GetString(ContextRole),
	}, true
}

// RequireRoles denies with 403 unless the caller's role is in the
// allowed set. Authentication failures are 401 and handled earlier by
// AuthMiddleware; the two must stay distinct.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			response.Error(c, http.StatusForbidden, "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			response.Error(c, http.StatusForbidden, "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
