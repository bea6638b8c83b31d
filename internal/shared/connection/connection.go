package connection

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/redis/go-redis/v9"

	"leavedesk/internal/config"
)

// ConnectGORMWithRetry opens the postgres connection described by cfg,
// retrying a fixed number of times so the API survives the database
// coming up after it in a compose stack.
func ConnectGORMWithRetry(cfg config.DatabaseConfig, maxRetries int) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
	)

	var lastErr error

	for i := 1; i <= maxRetries; i++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			lastErr = err
			zap.L().Warn("gorm open failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			zap.L().Warn("get sql.DB failed", zap.Int("attempt", i), zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		if err := sqlDB.Ping(); err != nil {
			lastErr = err
			zap.L().Warn("db ping failed", zap.Int("attempt", i), zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		// Pool config
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		zap.L().Info("database connection established")
		return db, nil
	}

	return nil, fmt.Errorf("database connection failed after %d retries: %w", maxRetries, lastErr)
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	for i := 1; i <= maxRetries; i++ {
		ctx := context.Background()
		if err := rdb.Ping(ctx).Err(); err == nil {
			zap.L().Info("redis connection established")
			return rdb, nil
		}

		zap.L().Warn("redis ping failed", zap.Int("attempt", i), zap.Int("max", maxRetries))
		time.Sleep(5 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect redis at %s", addr)
}
