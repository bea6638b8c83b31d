package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leavedesk/internal/auth"
	"leavedesk/internal/config"
	"leavedesk/internal/employee"
	"leavedesk/internal/leave"
	"leavedesk/internal/middleware"
	"leavedesk/internal/shared/connection"
	"leavedesk/internal/shared/response"
)

// BuildApp connects the infrastructure, migrates the schema and mounts
// every route on the router. It owns the wiring and nothing else.
func BuildApp(router *gin.Engine, cfg config.Config) error {
	db, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&auth.User{}, &employee.Employee{}, &leave.Leave{}); err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
		middleware.CORS(cfg),
	)

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "OK", gin.H{"status": "up"})
	})
	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	return registerModules(router, cfg, db, rdb)
}
