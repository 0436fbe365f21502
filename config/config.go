package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, read once at startup. Values come
// from the environment; godotenv has already been loaded by ConnectionDb.
type Config struct {
	HTTPAddr string

	// AppKey is the 32-byte key for the admin token cipher, hex or raw.
	AppKey string

	RedisAddr     string
	RedisPassword string
	AMQPUrl       string

	CookieDomain  string
	SecureCookies bool

	SessionRetentionDays int
	AdminTokenMaxAge     time.Duration
	CatalogCacheTTL      time.Duration

	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string

	MFAIssuer    string
	MFAJWTSecret string
}

func Load() Config {
	return Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		AppKey:               os.Getenv("APP_KEY"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		AMQPUrl:              os.Getenv("AMQP_URL"),
		CookieDomain:         os.Getenv("COOKIE_DOMAIN"),
		SecureCookies:        getEnvBool("SECURE_COOKIES", true),
		SessionRetentionDays: getEnvInt("SESSION_RETENTION_DAYS", 90),
		AdminTokenMaxAge:     getEnvDuration("ADMIN_TOKEN_MAX_AGE", 12*time.Hour),
		CatalogCacheTTL:      getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		ResendAPIKey:         os.Getenv("RESEND_API_KEY"),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@localhost"),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:8080"),
		MFAIssuer:            getEnv("MFA_ISSUER", "Storefront"),
		MFAJWTSecret:         os.Getenv("MFA_JWT_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
