package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.grandstand.in/api/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2, cfg.Backend.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Poll.Orders)
	assert.Equal(t, 10*time.Second, cfg.Poll.Prints)
	assert.Equal(t, time.Minute, cfg.Poll.Analytics)
	assert.Equal(t, "console", cfg.Print.Mode)
	assert.Equal(t, 2*time.Second, cfg.Print.AutoDebounce)
	assert.Equal(t, 30*time.Second, cfg.Alert.ReminderInterval)
	assert.Equal(t, "127.0.0.1:9480", cfg.HTTP.Addr)
	assert.Equal(t, "0 4 * * *", cfg.Jobs.CleanupSpec)
	assert.Equal(t, 30, cfg.Jobs.PrintLogRetentionDays)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`
backend:
  base_url: http://localhost:8080/api/v1
  max_retries: 5
poll:
  orders: 2s
print:
  mode: spool
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.Backend.BaseURL)
	assert.Equal(t, 5, cfg.Backend.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Poll.Orders)
	assert.Equal(t, "spool", cfg.Print.Mode)
	// 未覆盖的键保持默认。
	assert.Equal(t, 10*time.Second, cfg.Poll.Prints)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("backend:\n  base_url: http://from-file/api/v1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	t.Setenv("VENDORBOARD_BACKEND_BASE_URL", "http://from-env/api/v1")
	t.Setenv("VENDORBOARD_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://from-env/api/v1", cfg.Backend.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadLegacyEnvAlias(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("VENDOR_API_URL", "http://legacy/api/v1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://legacy/api/v1", cfg.Backend.BaseURL)
}

func TestSlogLevelParsing(t *testing.T) {
	cases := map[string]string{
		"debug": "DEBUG",
		"warn":  "WARN",
		"":      "INFO",
		"junk":  "INFO",
	}
	for input, want := range cases {
		cfg := LogConfig{Level: input}
		assert.Equal(t, want, cfg.SlogLevel().String(), "level %q", input)
	}
}
