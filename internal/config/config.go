// Package config provides the TOML configuration file and default paths.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig maps storage-related settings.
type StorageConfig struct {
	Path *string `toml:"path"`
}

// LogConfig maps logging-related settings.
type LogConfig struct {
	Debug *bool `toml:"debug"`
}

// Load reads a TOML config from the given path. A missing file is not an
// error; callers get zero-value defaults.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ResolveDBPath picks the database path: explicit flag, then config file,
// then the XDG default.
func ResolveDBPath(flagPath string, cfg FileConfig) string {
	if flagPath != "" {
		return flagPath
	}
	if cfg.Storage.Path != nil && *cfg.Storage.Path != "" {
		return *cfg.Storage.Path
	}
	return DefaultDBPath()
}
