package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "CATALOG_BASE_URL", "CATALOG_TIMEOUT", "REDIS_HOST", "REFRESH_INTERVAL", "PAGE_WINDOW_RADIUS", "CATALOG_TOKEN", "WRITE_RATE_LIMIT", "STREAM_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:5000/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Worker.RefreshInterval)
	assert.Equal(t, 2, cfg.Console.PageWindowRadius)
	assert.Equal(t, "session:admin:token", cfg.Session.Key)
	assert.Equal(t, 60, cfg.Console.WriteRateLimit)
	assert.True(t, cfg.Console.StreamEnabled)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "https://shop.example/api")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("CORS_ALLOWED_HOSTS", "admin.shop.example, ,localhost:4200")
	t.Setenv("STREAM_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Worker.RefreshInterval)
	assert.Equal(t, []string{"admin.shop.example", "localhost:4200"}, cfg.Console.AllowedHosts)
	assert.False(t, cfg.Console.StreamEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"relative base url": {"CATALOG_BASE_URL": "/api"},
		"bad timeout":       {"CATALOG_TIMEOUT": "soon"},
		"negative refresh":  {"REFRESH_INTERVAL": "-1s"},
		"zero radius":       {"PAGE_WINDOW_RADIUS": "0"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
