package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0:8085", cfg.Server.Address())
	assert.Equal(t, "http://localhost:3001", cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Upstream.TenantLookupTimeout)
	assert.Nil(t, cfg.SessionDB)
	assert.Equal(t, "taita_session", cfg.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Auth.CaptchaEnabled)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)

	// Development runs fall back to a local secret.
	assert.NotEmpty(t, cfg.Auth.SessionSecret)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPSTREAM_API_URL", "https://api.taita.example")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("CAPTCHA_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.taita.example, https://staging.taita.example")
	t.Setenv("ROUTES_FILE", "/etc/taita/routes.toml")

	cfg, err := New()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.taita.example", cfg.Upstream.BaseURL)
	assert.Equal(t, "prod-secret", cfg.Auth.SessionSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.CaptchaEnabled)
	assert.Equal(t, []string{"https://admin.taita.example", "https://staging.taita.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/etc/taita/routes.toml", cfg.Routes.File)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session secret")
}

func TestSessionDatabaseConfig(t *testing.T) {
	t.Run("connection string takes precedence", func(t *testing.T) {
		t.Setenv("SESSION_DATABASE_URL", "postgres://taita:pw@db.internal:5433/sessions")

		cfg, err := New()
		require.NoError(t, err)
		require.NotNil(t, cfg.SessionDB)
		assert.Equal(t, "postgres://taita:pw@db.internal:5433/sessions", cfg.SessionDB.DSN())

		// Passwords never appear in the loggable form.
		assert.NotContains(t, cfg.SessionDB.LogString(), "pw")
		assert.Contains(t, cfg.SessionDB.LogString(), "db.internal")
	})

	t.Run("individual fields build a DSN", func(t *testing.T) {
		t.Setenv("SESSION_DB_HOST", "localhost")
		t.Setenv("SESSION_DB_USER", "taita")
		t.Setenv("SESSION_DB_PASSWORD", "secret")
		t.Setenv("SESSION_DB_NAME", "taita_sessions")

		cfg, err := New()
		require.NoError(t, err)
		require.NotNil(t, cfg.SessionDB)
		assert.Equal(t,
			"host=localhost port=5432 user=taita password=secret dbname=taita_sessions sslmode=disable",
			cfg.SessionDB.DSN())
		assert.NotContains(t, cfg.SessionDB.LogString(), "secret")
	})

	t.Run("database user is required with a host", func(t *testing.T) {
		t.Setenv("SESSION_DB_HOST", "localhost")
		t.Setenv("SESSION_DB_USER", "")

		cfg, err := New()
		require.NoError(t, err)
		require.NotNil(t, cfg.SessionDB)
		// The default user applies when unset.
		assert.Equal(t, "taita", cfg.SessionDB.User)
	})
}

func TestEnvHelpers(t *testing.T) {
	t.Run("invalid int falls back to the default", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-number")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 8085, cfg.Server.Port)
	})

	t.Run("invalid duration falls back to the default", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "soon")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	})
}
