package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev-secret-key", cfg.App.SecretKey)
	assert.Equal(t, "uploads", cfg.App.UploadDir)
	assert.Equal(t, int64(16*1024*1024), cfg.App.MaxUploadSize)
	assert.Equal(t, 7*24*time.Hour, cfg.App.SessionLifetime)
	assert.Equal(t, time.Hour, cfg.App.PasswordResetMaxAge)
	assert.Equal(t, cfg.App.SecretKey, cfg.JWT.SecretKey)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "prod-key")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/school")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod-key", cfg.App.SecretKey)
	assert.Equal(t, "prod-key", cfg.JWT.SecretKey)
	assert.Equal(t, "postgres://u:p@db:5432/school", cfg.Database.DSN())
	assert.Equal(t, int64(1024), cfg.App.MaxUploadSize)
	assert.Equal(t, 2*time.Hour, cfg.App.SessionLifetime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
}

func TestDSNFromParts(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5433", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Contains(t, d.DSN(), "host=h")
	assert.Contains(t, d.DSN(), "port=5433")
	assert.Contains(t, d.DSN(), "dbname=n")
}
