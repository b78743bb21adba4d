package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LYFT_CLIENT_ID", "client-1")
	t.Setenv("LYFT_CLIENT_SECRET", "secret-1")

	cfg := LoadConfig()

	require.Equal(t, "client-1", cfg.ClientID)
	require.Equal(t, "secret-1", cfg.ClientSecret)
	require.Equal(t, ridesdk.AllScopes(), cfg.Scopes)
	require.False(t, cfg.Sandbox)
	require.Equal(t, ridesdk.DefaultBaseURL, cfg.APIHost)
	require.Equal(t, "file", cfg.StoreDriver)
	require.Equal(t, "oauth2_session_store.yaml", cfg.StoreFile)
	require.Zero(t, cfg.RateLimit)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LYFT_SCOPES", "public rides.read")
	t.Setenv("LYFT_SANDBOX", "true")
	t.Setenv("LYFT_API_HOST", "http://localhost:9000")
	t.Setenv("LYFT_STORE_DRIVER", "sqlite")
	t.Setenv("LYFT_STORE_FILE", "credentials.db")
	t.Setenv("LYFT_RATE_LIMIT", "2.5")

	cfg := LoadConfig()

	require.Equal(t, []string{"public", "rides.read"}, cfg.Scopes)
	require.True(t, cfg.Sandbox)
	require.Equal(t, "http://localhost:9000", cfg.APIHost)
	require.Equal(t, "sqlite", cfg.StoreDriver)
	require.Equal(t, "credentials.db", cfg.StoreFile)
	require.InDelta(t, 2.5, cfg.RateLimit, 0.001)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("LYFT_SANDBOX", "definitely")
	t.Setenv("LYFT_RATE_LIMIT", "fast")

	cfg := LoadConfig()

	require.False(t, cfg.Sandbox)
	require.Zero(t, cfg.RateLimit)
}

func TestNewRequiresAppCredentials(t *testing.T) {
	t.Setenv("LYFT_CLIENT_ID", "")
	t.Setenv("LYFT_CLIENT_SECRET", "")

	_, err := New(LoadConfig())
	require.Error(t, err)
}
