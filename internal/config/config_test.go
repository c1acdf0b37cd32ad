package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "X-Restaurant-ID", cfg.Tenant.HeaderName)
	assert.Equal(t, "restaurantId", cfg.Tenant.QueryParam)
	assert.Equal(t, int64(0), cfg.Tenant.DefaultID)
	assert.Equal(t, 8*time.Second, cfg.Payment.ProviderTimeout)
	assert.Equal(t, 10, cfg.Worker.Concurrency)
	assert.False(t, cfg.Development())
}

func TestLoad_DefaultRestaurant(t *testing.T) {
	t.Setenv("DEFAULT_RESTAURANT_ID", "42")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Tenant.DefaultID)
	assert.True(t, cfg.Development())
}

func TestLoad_InvalidDefaultRestaurant(t *testing.T) {
	t.Setenv("DEFAULT_RESTAURANT_ID", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Database.URL = "postgres://localhost/dinehub"
	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
