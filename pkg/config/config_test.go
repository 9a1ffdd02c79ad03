package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.SessionPoolURL)
	assert.Equal(t, "", cfg.BrowserWSEndpoint)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 60*time.Second, cfg.PageLoadTimeout)
	assert.Equal(t, 10*time.Second, cfg.DecodeTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_POOL_URL", "http://pool.internal:3000")
	t.Setenv("SESSION_POOL_TOKEN", "secret")
	t.Setenv("BROWSER_WS_ENDPOINT", "ws://chrome:9222")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("PAGE_LOAD_TIMEOUT_SECONDS", "30")
	t.Setenv("DECODE_TIMEOUT_SECONDS", "5")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "http://pool.internal:3000", cfg.SessionPoolURL)
	assert.Equal(t, "secret", cfg.SessionPoolToken)
	assert.Equal(t, "ws://chrome:9222", cfg.BrowserWSEndpoint)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 30*time.Second, cfg.PageLoadTimeout)
	assert.Equal(t, 5*time.Second, cfg.DecodeTimeout)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")

	cfg := Load()

	assert.Equal(t, 4, cfg.WorkerCount)
}
