package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "liftforge")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads from environment in test env", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, "liftforge", cfg.DBName)
		assert.Equal(t, "jwt-secret", cfg.JWTSecret)
	})

	t.Run("missing required values fail validation", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt secret")
	})

	t.Run("redis url satisfies the redis requirement", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REDIS_HOST", "")
		t.Setenv("REDIS_PORT", "")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	})

	t.Run("development overlays docker secrets", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ENV", "development")

		secretsDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret\n"), 0o600))
		t.Setenv("SECRETS_DIR", secretsDir)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "from-secret", cfg.JWTSecret)
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
