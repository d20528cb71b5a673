package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IPFIRE_HOST", "192.168.1.1")
	t.Setenv("IPFIRE_USERNAME", "admin")
	t.Setenv("IPFIRE_PASSWORD", "hunter22")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "changeme1")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 444, cfg.RouterPort)
	require.False(t, cfg.RouterSkipVerify)
	require.Equal(t, 3*time.Second, cfg.PollInterval)
	require.Equal(t, ":3000", cfg.Address)
	require.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	require.Equal(t, "ipfiretray.db", cfg.DBPath)
	require.Equal(t, 15*time.Minute, cfg.HistoryRetention)
	require.Equal(t, 50, cfg.FlushBatchSize)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IPFIRE_PORT", "8443")
	t.Setenv("IPFIRE_SKIP_VERIFY", "true")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("ALLOWED_ORIGINS", "https://one.example, https://two.example")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8443, cfg.RouterPort)
	require.True(t, cfg.RouterSkipVerify)
	require.Equal(t, 10*time.Second, cfg.PollInterval)
	require.Equal(t, []string{"https://one.example", "https://two.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IPFIRE_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
}
