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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:3001", cfg.Server.Address())
	assert.Equal(t, "ws://192.168.1.100:3000", cfg.TV.URL())
	assert.Equal(t, 5*time.Second, cfg.TV.Timeout)
	assert.Equal(t, 3*time.Second, cfg.TV.Reconnect)
	assert.Equal(t, 3*time.Second, cfg.Messages.Duration)
	assert.Equal(t, PlanTiming{First: 0, Second: 60 * time.Second, Third: 120 * time.Second, Final: 125 * time.Second}, cfg.Shutdown.Standard)
	assert.Equal(t, PlanTiming{First: 0, Second: 10 * time.Second, Third: 20 * time.Second, Final: 30 * time.Second}, cfg.Shutdown.Fast)
}

func TestLoad_EnvOverlay(t *testing.T) {
	t.Setenv("TV_IP", "10.0.0.7")
	t.Setenv("TV_PORT", "3001")
	t.Setenv("TV_TIMEOUT", "2500")
	t.Setenv("PORT", "8080")
	t.Setenv("MESSAGE_DURATION", "4000")
	t.Setenv("SHUTDOWN_TEST_DELAY_FINAL", "45000")
	t.Setenv("SHUTDOWN_DELAY_2", "not-a-number")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.7", cfg.TV.IP)
	assert.Equal(t, 3001, cfg.TV.Port)
	assert.Equal(t, 2500*time.Millisecond, cfg.TV.Timeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4*time.Second, cfg.Messages.Duration)
	assert.Equal(t, 45*time.Second, cfg.Shutdown.Fast.Final)
	assert.Equal(t, 60*time.Second, cfg.Shutdown.Standard.Second, "invalid value keeps the default")
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tvremoted.yaml")
	content := `
server:
  port: 9000
tv:
  ip: 192.168.0.42
  mac: "aa:bb:cc:dd:ee:ff"
shutdown:
  cron: "30 23 * * *"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "192.168.0.42", cfg.TV.IP)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", cfg.TV.MAC)
	assert.Equal(t, "30 23 * * *", cfg.Shutdown.Cron)
	assert.Equal(t, 3000, cfg.TV.Port, "unset fields keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad_port", env: map[string]string{"PORT": "70000"}},
		{name: "bad_mac", env: map[string]string{"TV_MAC": "not-a-mac"}},
		{name: "bad_cron", env: map[string]string{"SHUTDOWN_CRON": "every night"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_RejectsNonYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
