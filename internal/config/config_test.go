package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultRole, cfg.DefaultRole)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout())
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_url: https://complaints.example.gov\nhttp_timeout: 10\ndefault_role: admin\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://complaints.example.gov", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "admin", cfg.DefaultRole)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("COMPLAINTS_HOST", "complaints.example.gov")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://${COMPLAINTS_HOST}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://complaints.example.gov", cfg.BaseURL)
}

func TestLoad_BaseURLOverride(t *testing.T) {
	t.Setenv("CIVICDESK_BASE_URL", "https://override.example.gov")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example.gov\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.gov", cfg.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"relative base url", func(c *Config) { c.BaseURL = "complaints.example.gov" }, true},
		{"bad role", func(c *Config) { c.DefaultRole = "mayor" }, true},
		{"negative timeout", func(c *Config) { c.HTTPTimeoutSeconds = -1 }, true},
		{"super-admin role", func(c *Config) { c.DefaultRole = "super-admin" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.BaseURL = "https://complaints.example.gov"
	cfg.HTTPTimeoutSeconds = 5
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseURL, reloaded.BaseURL)
	assert.Equal(t, 5*time.Second, reloaded.HTTPTimeout())
}

func TestDir_HomeOverride(t *testing.T) {
	t.Setenv("CIVICDESK_HOME", "/tmp/civicdesk-test")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/civicdesk-test", dir)
}
