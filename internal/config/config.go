// Package config loads and saves finkpi configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all finkpi configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds dataset locations.
type GeneralConfig struct {
	InputCSV  string `toml:"input_csv,omitempty"`
	OutputDir string `toml:"output_dir,omitempty"`
	Database  string `toml:"database,omitempty"`
}

// DashboardConfig holds dashboard startup preferences.
type DashboardConfig struct {
	Department  string `toml:"department,omitempty"`
	RangeMonths int    `toml:"range_months"` // 0 = all data
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			InputCSV:  filepath.Join("data", "raw", "financials.csv"),
			OutputDir: filepath.Join("data", "processed"),
			Database:  "financials.db",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finkpi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "finkpi")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
