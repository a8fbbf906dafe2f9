package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_MySQL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "stagedoor")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@rabbit:5672/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "stagedoor", cfg.DBName)
	assert.Equal(t, "amqp://u:p@rabbit:5672/", cfg.RabbitURL)
	assert.Equal(t, 10, cfg.QuestionsPerPage)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_SQLiteNeedsOnlyPath(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "file:test.db")
	t.Setenv("QUESTIONS_PER_PAGE", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file:test.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.QuestionsPerPage)
}

func TestLoad_ReportsEveryMissingVar(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"APP_ENV", "APP_PORT", "JWT_SECRET", "DB_PATH"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")

	cfg := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
}

func TestRedisOptions_HostPortWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")

	opts := RedisOptions()
	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Nil(t, opts.TLSConfig)
}
