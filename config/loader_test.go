package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "http://localhost:8085/v1/auth", cfg.Auth.IdentityEndpoint)
	assert.Equal(t, "/var/lib/filegate", cfg.Backend.RootPath)
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(32<<20), cfg.Upload.MaxMemory)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  listen_addr: ":9090"
auth:
  identity_endpoint: "https://identity.internal/v1/auth"
  verify_timeout: 5s
backend:
  root_path: "/srv/files"
`), 0644))

	cfg, err := LoadConfigFromFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, "https://identity.internal/v1/auth", cfg.Auth.IdentityEndpoint)
	assert.Equal(t, 5*time.Second, cfg.Auth.VerifyTimeout)
	assert.Equal(t, "/srv/files", cfg.Backend.RootPath)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("FILEGATE_LOG_FORMAT", "console")
	t.Setenv("FILEGATE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("FILEGATE_LOG_LEVEL", "verbose")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}
