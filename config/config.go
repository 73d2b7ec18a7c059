// Package config stores the viewer settings as JSON.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	appDirName     = "egbc"
	configFileName = "config.json"
)

// GetConfigPath returns the default location of config.json.
func GetConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// LoadConfig loads the configuration from path.
// If the file doesn't exist, it returns default configuration.
// If the file is corrupted, it returns an error.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	config := &Config{}
	if err := ReadJSON(path, config); err != nil {
		return nil, err
	}

	// Apply any migration for older config versions
	return migrateConfig(config), nil
}

// SaveConfig saves the configuration to path atomically
func SaveConfig(path string, config *Config) error {
	return AtomicWriteJSON(path, config)
}

// CreateConfigIfMissing creates a default config at path if it doesn't exist
func CreateConfigIfMissing(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return SaveConfig(path, DefaultConfig())
	}
	return nil
}

// migrateConfig handles any necessary migrations from older config versions
func migrateConfig(config *Config) *Config {
	// Currently at version 1, no migrations needed
	if config.Version == 0 {
		config.Version = 1
	}

	// Ensure defaults for any missing fields
	defaults := DefaultConfig()
	if config.Video.Scale <= 0 {
		config.Video.Scale = defaults.Video.Scale
	}
	if config.Window.Width <= 0 || config.Window.Height <= 0 {
		config.Window.Width = 0
		config.Window.Height = 0
	}

	return config
}
