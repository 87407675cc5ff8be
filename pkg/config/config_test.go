package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("POST_CACHE_TTL", "30s")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "5")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, "redis:6380", cfg.RedisAddr())
	assert.Equal(t, 30*time.Second, cfg.PostCacheTTL)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, int64(5), cfg.MaxUploadSizeMB)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "http://localhost:9090", cfg.PublicBaseURL)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PUBLIC_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "", cfg.RedisHost)
	assert.Equal(t, "disk", cfg.StorageDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "secret",
		DBName:     "blog",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost user=postgres password=secret dbname=blog port=5432 sslmode=disable", cfg.DSN())
}
