package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetAddress())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addresses)
	assert.Equal(t, "sqlite", cfg.Local.Driver)
	assert.Equal(t, "hops_pins_cache_", cfg.Local.Prefix)
	assert.Equal(t, 30*24*time.Hour, cfg.Local.BeerTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Local.PlacesTTL)
	assert.Equal(t, 450, cfg.Budget.MonthlyLimit)
	assert.Equal(t, "beer_api_request_period", cfg.Budget.PeriodKey)
	assert.Equal(t, "catalog", cfg.Provider.Format)
	assert.Equal(t, 8*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Search.ProviderTimeout)
	assert.Equal(t, cfg.Local.BeerTTL, cfg.Search.BeerTTL)
	assert.Equal(t, 5000, cfg.Places.DefaultRadius)
	assert.Equal(t, "ale", cfg.Search.BrowseTerm)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  trusted_proxies:
    - 10.0.0.0/8
local:
  driver: memory
  beer_ttl: 1h
budget:
  monthly_limit: 100
beer_provider:
  format: punk
  timeout: 2s
`), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "memory", cfg.Local.Driver)
	assert.Equal(t, time.Hour, cfg.Search.BeerTTL)
	assert.Equal(t, 100, cfg.Budget.MonthlyLimit)
	assert.Equal(t, "punk", cfg.Provider.Format)
	assert.Equal(t, 2*time.Second, cfg.Search.ProviderTimeout)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOPS_BEER_PROVIDER_API_KEY", "secret")
	t.Setenv("HOPS_REDIS_ADDRESSES", "a:6379, b:6379")
	t.Setenv("HOPS_SERVER_PORT", "7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Provider.APIKey)
	assert.Equal(t, []string{"a:6379", "b:6379"}, cfg.Redis.Addresses)
	assert.Equal(t, 7070, cfg.Server.Port)
}
