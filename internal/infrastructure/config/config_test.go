package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, 5*time.Second, cfg.RemoteOpTimeout)
	require.False(t, cfg.RemoteConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/shwebook")
	t.Setenv("REDIS_URL", "redis://localhost:6380")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("REMOTE_OP_TIMEOUT", "2s")
	t.Setenv("AUTH_JWT_SECRET", "shh")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/var/lib/shwebook", cfg.DataDir)
	require.True(t, cfg.RemoteConfigured())
	require.Equal(t, "9999", cfg.HTTPPort)
	require.Equal(t, 2*time.Second, cfg.RemoteOpTimeout)
	require.Equal(t, "shh", cfg.JWTSecret)
}
