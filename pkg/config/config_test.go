package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("CARD_ENCRYPTION_KEY", "0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "products", cfg.Mongo.Collection)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 2, cfg.Redis.MinIdleConns)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.Redis.ReadTimeout)
	assert.False(t, cfg.Mailjet.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_POOL_SIZE", "40")
	t.Setenv("REDIS_READ_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 3, cfg.Redis.RedisDB)
	assert.Equal(t, 40, cfg.Redis.PoolSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.ReadTimeout)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoadRejectsBadCardKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CARD_ENCRYPTION_KEY", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
