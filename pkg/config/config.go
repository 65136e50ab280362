package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. DatabaseURL selects PostgreSQL when set; otherwise the
	// service runs on an embedded SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL            string
	CapacityCacheTTL    time.Duration
	CapacityCacheEnable bool

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Server
	ServerAddr string

	// Worker
	WorkerHealthAddr string

	// Person directory upstream (OAuth2 client credentials)
	PersonDirectoryURL          string
	PersonDirectoryTokenURL     string
	PersonDirectoryClientID     string
	PersonDirectoryClientSecret string
	PersonDirectoryTimeout      time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),

		RedisURL:            getEnv("REDIS_URL", ""),
		CapacityCacheTTL:    getDurationEnv("CAPACITY_CACHE_TTL", 5*time.Minute),
		CapacityCacheEnable: getBoolEnv("CAPACITY_CACHE_ENABLED", true),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0:8080"),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		PersonDirectoryURL:          getEnv("PERSON_DIRECTORY_URL", ""),
		PersonDirectoryTokenURL:     getEnv("PERSON_DIRECTORY_TOKEN_URL", ""),
		PersonDirectoryClientID:     getEnv("PERSON_DIRECTORY_CLIENT_ID", ""),
		PersonDirectoryClientSecret: getEnv("PERSON_DIRECTORY_CLIENT_SECRET", ""),
		PersonDirectoryTimeout:      getDurationEnv("PERSON_DIRECTORY_TIMEOUT", 10*time.Second),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
