package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"tdl/internal/model"
)

// Config holds per-user settings stored in .tdl/config.toml.
// Everything is optional; zero values take documented defaults.
type Config struct {
	// DefaultLanguage seeds the UI language on first run. The persisted
	// language slice wins once it exists.
	DefaultLanguage string `toml:"default_language"`
	// MaxBackups caps how many database snapshots are kept.
	MaxBackups int `toml:"max_backups"`
}

func applyDefaults(c *Config) {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = model.DefaultLanguage
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
}

// Load reads the settings file from the data directory. A missing file
// returns defaults; a malformed file is an error so the user finds out.
func Load(dataDir string) (*Config, error) {
	c := &Config{}
	data, err := os.ReadFile(filepath.Join(dataDir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(c)
			return c, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(c)
	return c, nil
}
