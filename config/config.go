// Package config loads the host-side eggbot configuration. A missing
// config file is created from the embedded default on first run.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed eggbot.toml
var defaultConfigData []byte

// Config is the TOML configuration structure.
type Config struct {
	// Model selects the controller board ("uno" or "mega").
	Model string `toml:"model"`

	// Port is the serial device path; empty means auto-detect.
	Port string `toml:"port"`

	// Baud overrides the standard 115200 when nonzero.
	Baud int `toml:"baud"`

	// AutoBootstrap reflashes a stale listener during session open.
	AutoBootstrap bool `toml:"auto_bootstrap"`
}

// configPath determines the config file location per OS.
func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(dir, "eggbot", "eggbot.toml"), nil
}

// Load reads the configuration, creating it from the embedded default
// when absent.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, defaultConfigData, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create default config at %s: %w", path, err)
		}
	}

	var conf Config
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config at %s: %w", path, err)
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return &conf, nil
}

// Default returns the embedded default configuration without touching the
// filesystem.
func Default() (*Config, error) {
	var conf Config
	if err := toml.Unmarshal(defaultConfigData, &conf); err != nil {
		return nil, fmt.Errorf("embedded default config: %w", err)
	}
	return &conf, nil
}

func (c *Config) validate() error {
	switch c.Model {
	case "uno", "mega":
	case "":
		return fmt.Errorf("`model` key is missing or empty")
	default:
		return fmt.Errorf("unknown model %q", c.Model)
	}
	if c.Baud < 0 {
		return fmt.Errorf("baud must not be negative, got %d", c.Baud)
	}
	return nil
}
