package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	shipfs "github.com/sqve/shipit/internal/fs"
)

const fileHeader = `# shipit configuration
# Keys can be overridden with SHIPIT_<SECTION>_<KEY> environment variables.

`

// LoadFromFile decodes a TOML config file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec // User-selected config path
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// WriteToFile uses atomic write (temp file + rename) to prevent corruption.
func WriteToFile(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	content := append([]byte(fileHeader), data...)
	return shipfs.WriteFileAtomic(shipfs.OS(), path, content, shipfs.FileGit)
}

// WriteDefaultFile writes the default configuration to path unless it exists.
func WriteDefaultFile(path string, force bool) error {
	if !force && shipfs.FileExists(shipfs.OS(), path) {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return WriteToFile(path, DefaultConfig())
}
