package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pharmstock-gateway", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "pharmstock_session", cfg.Session.CookieName)
	assert.Equal(t, 720*time.Hour, cfg.Session.CredentialTTL())
	assert.Equal(t, 2*time.Hour, cfg.Session.IdentityTTL())
	assert.Equal(t, 15*time.Second, cfg.Upstream.RequestTimeout())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("UPSTREAM_BASE_URL", "https://api.pharm.example")
	t.Setenv("UPSTREAM_REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_CREDENTIAL_TTL_HOURS", "24")
	t.Setenv("SESSION_IDENTITY_TTL_MINUTES", "30")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, "https://api.pharm.example", cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.RequestTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Session.CredentialTTL())
	assert.Equal(t, 30*time.Minute, cfg.Session.IdentityTTL())
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestBadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("SESSION_IDENTITY_TTL_MINUTES", "soon")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdentityTTL())
}
