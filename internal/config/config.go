package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// Config is built once at process start and passed explicitly to every
// component that needs it. Core logic never reads the environment.
type Config struct {
	Port string
	Env  string

	DB        DatabaseConfig
	RedisAddr string

	JWTSecret string
	JWTExpiry time.Duration

	CORSOrigin string

	// Requests per second and burst for the per-IP limiter on the
	// public auth routes.
	AuthRateLimit float64
	AuthRateBurst int

	// Per-user limiter for authenticated write routes.
	WriteRateLimit float64
	WriteRateBurst int
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env when present and assembles the Config. It fails when
// a setting without a safe default is missing.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("APP_ENV", "development"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "leavedesk"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	expiry := getEnv("JWT_EXPIRES_IN", "1h")
	d, err := time.ParseDuration(expiry)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", expiry, err)
	}
	cfg.JWTExpiry = d

	cfg.AuthRateLimit, err = strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT", "1"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}
	cfg.AuthRateBurst, err = strconv.Atoi(getEnv("AUTH_RATE_BURST", "5"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid AUTH_RATE_BURST: %w", err)
	}

	cfg.WriteRateLimit, err = strconv.ParseFloat(getEnv("WRITE_RATE_LIMIT", "5"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid WRITE_RATE_LIMIT: %w", err)
	}
	cfg.WriteRateBurst, err = strconv.Atoi(getEnv("WRITE_RATE_BURST", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid WRITE_RATE_BURST: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
