package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leavedesk/internal/app"
	"leavedesk/internal/bootstrap"
	"leavedesk/internal/config"
	"leavedesk/internal/shared/apperror"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	if err := app.BuildApp(r, cfg); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutAuditLogger(),
	)
}
