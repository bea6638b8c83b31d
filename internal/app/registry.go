package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"leavedesk/internal/auth"
	"leavedesk/internal/config"
	"leavedesk/internal/employee"
	"leavedesk/internal/leave"
	"leavedesk/internal/policy"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	leaveRepo := leave.NewRepository(db)

	// --- Policy ---
	policyService, err := policy.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(employeeRepo)
	authService := auth.NewService(db, authRepo, employeeService, cfg)
	leaveService := leave.NewService(db, leaveRepo, employeeService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService, rdb)

	// --- Routes ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, cfg)
		employee.RegisterRoutes(api, employeeHandler, cfg, policyService)
		leave.RegisterRoutes(api, leaveHandler, cfg, policyService, rdb)
		leave.RegisterEmployerRoutes(api, leaveHandler, cfg, policyService)
	}

	return nil
}
