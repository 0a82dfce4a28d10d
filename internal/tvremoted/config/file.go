package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// allowedExtensions lists the allowed config file extensions
var allowedExtensions = []string{".yaml", ".yml"}

// Load builds the configuration from defaults, an optional YAML file and the
// environment. A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Missing .env is not an error
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cfg.overlayEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readConfigFile reads a regular YAML file
func readConfigFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)

	validExt := false
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(strings.ToLower(cleanPath), ext) {
			validExt = true
			break
		}
	}
	if !validExt {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension")
	}

	fi, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("config path must be a regular file")
	}

	// #nosec G304 -- extension and file type checked above
	return os.ReadFile(cleanPath)
}
