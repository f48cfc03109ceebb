package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.HTTP.Address)
	require.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, 500, cfg.Recommendation.MaxCandidates)
	require.Equal(t, 20, cfg.Recommendation.MaxResults)
	require.Equal(t, 10, cfg.Recommendation.MaxPreferences)
	require.Equal(t, 50, cfg.Catalog.Search.Limit)
	require.Equal(t, 64, cfg.Catalog.Search.MaxQueryLength)
	require.Equal(t, []string{"127.0.0.1", "::1"}, cfg.HTTP.TrustedProxies)
	require.False(t, cfg.Catalog.Seed.Object.Enabled())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  address: ":9000"
upstream:
  timeout: 3s
  openWeather:
    apiKey: from-file
recommendation:
  maxResults: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OPENWEATHER_API_KEY", "from-env")
	t.Setenv("FRONTEND_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "from-env", cfg.Upstream.OpenWeather.APIKey)
	require.Equal(t, 5, cfg.Recommendation.MaxResults)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, []string{"10.0.0.0/8"}, cfg.HTTP.TrustedProxies)
}

func TestPortOverride(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("PORT", "8088")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8088", cfg.HTTP.Address)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommendation.MaxResults = 0
	require.ErrorContains(t, cfg.Validate(), "maxResults")

	cfg = defaultConfig()
	cfg.HTTP.TrustedProxies = []string{"not-an-ip"}
	require.ErrorContains(t, cfg.Validate(), "http.trustedProxies")

	cfg = defaultConfig()
	cfg.Location.Redis.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "location.redis.addr")

	cfg = defaultConfig()
	cfg.Upstream.Timeout = 0
	require.ErrorContains(t, cfg.Validate(), "upstream.timeout")
}
