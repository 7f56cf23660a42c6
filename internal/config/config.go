package config

import (
	"os"
	"strconv"
	"time"
)

// Environment names recognised in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort       string
	Env              string
	MySQLDSN         string
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	JWTSecret        string
	JWTExpiresIn     time.Duration
	JWTCookieExpires time.Duration
	AWSRegion        string
	EmailFrom        string
	AppBaseURL       string
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		Env:              getEnv("APP_ENV", EnvDevelopment),
		MySQLDSN:         getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/blog?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		JWTExpiresIn:     getEnvDuration("JWT_EXPIRES_IN", 90*24*time.Hour),
		JWTCookieExpires: time.Duration(getEnvInt("JWT_COOKIE_EXPIRES_DAYS", 90)) * 24 * time.Hour,
		AWSRegion:        getEnv("AWS_REGION", "eu-west-1"),
		EmailFrom:        os.Getenv("SES_FROM_EMAIL"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the app runs in production mode. In production
// error responses hide internal detail and the jwt cookie is marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
