package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "text", cfg.Output)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvremotectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: http://tv-gateway:3001\ntimeout: 5m\noutput: json\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://tv-gateway:3001", cfg.Server)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvremotectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: http://tv-gateway:3001\n"), 0o600))
	t.Setenv("TVREMOTE_SERVER", "http://10.0.0.5:3001")
	t.Setenv("TVREMOTE_TIMEOUT", "10s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:3001", cfg.Server)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvremotectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
