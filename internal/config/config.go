package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	Storage     string // "postgres" or "memory"
	AutoMigrate bool
	JWKSURL     string
	CORSOrigins string
	// Redis (optional): settings cache and audit stream
	RedisURL         string
	SettingsCacheTTL time.Duration
	AuditStream      string
	// Transaction retry
	TxMaxRetries           int
	TxRetryInitialInterval time.Duration
	// Background jobs
	TrashRetention  time.Duration
	PurgeSchedule   string
	RecountSchedule string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool // Enables debug-level logging
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		Storage:     getEnv("STORAGE", "postgres"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "true") == "true",
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		RedisURL:         getEnv("REDIS_URL", ""),
		SettingsCacheTTL: getDuration("SETTINGS_CACHE_TTL", 5*time.Minute),
		AuditStream:      getEnv("AUDIT_STREAM", "docspace:audit"),

		TxMaxRetries:           getInt("TX_MAX_RETRIES", 3),
		TxRetryInitialInterval: getDuration("TX_RETRY_INITIAL_INTERVAL", 50*time.Millisecond),

		TrashRetention:  getDuration("TRASH_RETENTION", 30*24*time.Hour),
		PurgeSchedule:   getEnv("PURGE_SCHEDULE", "@every 1h"),
		RecountSchedule: getEnv("RECOUNT_SCHEDULE", "0 3 * * *"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt falls back to defaultValue when the variable is unset or malformed
func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getDuration accepts Go duration syntax ("90s", "720h")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
