package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Equal(t, DefaultMangaDexURL, cfg.MangaDex.URL)
	assert.Equal(t, DefaultConsumetURL, cfg.Consumet.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Paths.DataDir)
}

func TestLoadFromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  url: http://localhost:4000
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", cfg.Backend.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultMangaDexURL, cfg.MangaDex.URL)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("backend:\n  url: http://from-file\n"), 0644))

	t.Setenv("WEPCOMIC_BACKEND_URL", "http://from-env")
	t.Setenv("WEPCOMIC_LOG_FORMAT", "json")

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.Backend.URL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
}

func TestInvalidYAML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("backend: [not: valid"), 0644))

	_, err := Load(configFile)
	assert.Error(t, err)
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{}
	cfg.Paths.DataDir = "/tmp/data"
	assert.Equal(t, filepath.Join("/tmp/data", "wepcomic.db"), cfg.DatabasePath())
}
