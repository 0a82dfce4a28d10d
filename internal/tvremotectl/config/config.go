// Package config provides configuration management for the webOS remote CLI
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultServer is the gateway address used when nothing else is configured
	DefaultServer = "http://localhost:3001"
	// DefaultTimeout bounds each API request
	DefaultTimeout = 60 * time.Second
)

// Config holds the CLI configuration
type Config struct {
	// Server is the gateway base URL
	Server string `mapstructure:"server"`
	// Timeout bounds each API request. Combos wait for every step.
	Timeout time.Duration `mapstructure:"timeout"`
	// Output selects the output format: text or json
	Output string `mapstructure:"output"`
}

// defaultConfigPath returns the default config file path
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tvremotectl.yaml"
	}
	return filepath.Join(home, ".tvremotectl.yaml")
}

// Load reads the configuration from path, or the default location when path
// is empty. A missing file leaves the defaults in place. TVREMOTE_SERVER,
// TVREMOTE_TIMEOUT and TVREMOTE_OUTPUT override the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server", DefaultServer)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("output", "text")

	v.SetEnvPrefix("TVREMOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
			// No config file at the default location
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &cfg, nil
}
