package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "permission-manager", cfg.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.LoginRateMax)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("LOGIN_RATE_MAX", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.LoginRateMax)
}

func TestLoadConfigRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "tooshort")

	_, err := LoadConfig()
	assert.Error(t, err)
}
