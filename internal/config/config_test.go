package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("ACTIVITY_MAX_AGE", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=orgboard")
	assert.Contains(t, cfg.DatabaseDSN, "sslmode=disable")
	assert.Equal(t, 30*24*time.Hour, cfg.ActivityMaxAge)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/orgboard")
	t.Setenv("JWT_SECRET", "shh")
	t.Setenv("ACTIVITY_MAX_AGE", "72h")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "postgres://u:p@db:5432/orgboard", cfg.DatabaseDSN)
	assert.Equal(t, "shh", cfg.JWTSecret)
	assert.Equal(t, 72*time.Hour, cfg.ActivityMaxAge)
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("ACTIVITY_MAX_AGE", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 30*24*time.Hour, cfg.ActivityMaxAge)
}
