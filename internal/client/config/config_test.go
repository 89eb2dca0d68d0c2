package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api", c.APIBaseURL)
	assert.Equal(t, StorageSQLite, c.StorageBackend)
	assert.Equal(t, "fyndr.db", c.DatabasePath)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.RefreshLeeway)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, t.TempDir(), "cfg.json", map[string]any{
		"api_base_url":    "http://json.example/api",
		"storage_backend": "memory",
		"request_timeout": "5s",
	})
	t.Setenv("FYNDR_STORAGE", "redis")
	os.Args = []string{"fyndr", "-c", path, "-t", "7"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "http://json.example/api", cfg.APIBaseURL, "json overrides default")
	assert.Equal(t, StorageRedis, cfg.StorageBackend, "env overrides json")
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout, "flag overrides json")
	assert.Equal(t, "fyndr.db", cfg.DatabasePath, "untouched default")
}

func TestParseEnv(t *testing.T) {
	t.Setenv("FYNDR_API_BASE_URL", "https://api.fyndr.ai/api")
	t.Setenv("FYNDR_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("FYNDR_REQUEST_TIMEOUT", "12s")
	t.Setenv("FYNDR_REFRESH_LEEWAY", "not-a-duration")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "https://api.fyndr.ai/api", c.APIBaseURL)
	assert.Equal(t, "redis://cache:6379/2", c.RedisURL)
	assert.Equal(t, 12*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.RefreshLeeway)
}

func TestLoadConfig_EnvTimeoutKeptWithoutFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"fyndr"}

	for _, raw := range []string{"500ms", "2500ms"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("FYNDR_REQUEST_TIMEOUT", raw)
			want, err := time.ParseDuration(raw)
			require.NoError(t, err)

			cfg := LoadConfig()
			assert.Equal(t, want, cfg.RequestTimeout)
		})
	}
}
