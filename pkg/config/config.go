package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	// SessionPoolURL is the HTTP base URL of the remote browser provider
	// (session listing and launch). When empty the pool path of acquisition
	// is skipped.
	SessionPoolURL string
	// SessionPoolToken is the provider API token, appended to WebSocket
	// endpoints when set.
	SessionPoolToken string
	// BrowserWSEndpoint is a directly supplied DevTools WebSocket endpoint,
	// used as the last acquisition fallback.
	BrowserWSEndpoint string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WorkerCount     int
	PageLoadTimeout time.Duration
	DecodeTimeout   time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SessionPoolURL:    getEnv("SESSION_POOL_URL", ""),
		SessionPoolToken:  getEnv("SESSION_POOL_TOKEN", ""),
		BrowserWSEndpoint: getEnv("BROWSER_WS_ENDPOINT", ""),
		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:      getEnv("POSTGRES_USER", "user"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:        getEnv("POSTGRES_DB", "extract"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		WorkerCount:       getEnvAsInt("WORKER_COUNT", 4),
		PageLoadTimeout:   getEnvAsDuration("PAGE_LOAD_TIMEOUT_SECONDS", 60) * time.Second,
		DecodeTimeout:     getEnvAsDuration("DECODE_TIMEOUT_SECONDS", 10) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
