package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateStandin())
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "rfidash.yaml", `
addr: ":9090"
api_url: "http://inventory.local:8000"
api_timeout: 5s
legacy_delete_reenters: true
secure_cookies: true
standin:
  db: "/tmp/items.db"
  read_interval: 250ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "http://inventory.local:8000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.True(t, cfg.LegacyDeleteReenters)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, "/tmp/items.db", cfg.Standin.DB)
	assert.Equal(t, 250*time.Millisecond, cfg.Standin.ReadInterval)
	// Untouched keys keep their defaults.
	assert.Equal(t, ":8000", cfg.Standin.Addr)
	assert.Equal(t, "30-M", cfg.RFIDRateLimit)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "api_uri: http://x\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "rfidash.yaml", "api_url: http://from-file:8000\n")
	t.Setenv("RFIDASH_API_URL", "http://from-env:8000")
	t.Setenv("RFIDASH_API_TIMEOUT", "2s")
	t.Setenv("RFIDASH_LEGACY_DELETE_REENTERS", "true")
	t.Setenv("RFIDASH_SECURE_COOKIES", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.APITimeout)
	assert.True(t, cfg.LegacyDeleteReenters)
	assert.True(t, cfg.SecureCookies)
}

func TestEnvInvalidValues(t *testing.T) {
	t.Setenv("RFIDASH_API_TIMEOUT", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "RFIDASH_API_TIMEOUT")
}

func TestEnvInvalidBool(t *testing.T) {
	t.Setenv("RFIDASH_SECURE_COOKIES", "sometimes")
	_, err := Load("")
	assert.ErrorContains(t, err, "RFIDASH_SECURE_COOKIES")
}

func TestDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "RFIDASH_STANDIN_DB=/var/lib/standin.db\nRFIDASH_LOG=/tmp/rfidash.log\n")
	t.Cleanup(func() {
		os.Unsetenv("RFIDASH_STANDIN_DB")
		os.Unsetenv("RFIDASH_LOG")
	})
	// Already-set variables win over the .env file.
	t.Setenv("RFIDASH_LOG", "/var/log/rfidash.log")

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/standin.db", cfg.Standin.DB)
	assert.Equal(t, "/var/log/rfidash.log", cfg.Log)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"relative api url", func(c *Config) { c.APIURL = "localhost:8000" }},
		{"ftp api url", func(c *Config) { c.APIURL = "ftp://host" }},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }},
		{"no rate limit", func(c *Config) { c.RFIDRateLimit = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Standin.ReadInterval = 0
	assert.Error(t, cfg.ValidateStandin())
}
