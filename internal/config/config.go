package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the compiler options read from ember.toml. CLI flags
// override file values; missing file means defaults.
type Config struct {
	// MaxDiagnostics bounds the diagnostics bag per compile.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// Listing enables the textual assembler stream.
	Listing bool `toml:"listing"`
	// Color selects diagnostic coloring: auto, on or off.
	Color string `toml:"color"`
	// TabWidth is the visual tab width in diagnostics previews.
	TabWidth int `toml:"tab_width"`
}

// Default returns the built-in option values.
func Default() Config {
	return Config{
		MaxDiagnostics: 100,
		Listing:        true,
		Color:          "auto",
		TabWidth:       4,
	}
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.MaxDiagnostics <= 0 {
		cfg.MaxDiagnostics = 100
	}
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = 4
	}
	switch cfg.Color {
	case "auto", "on", "off":
	default:
		cfg.Color = "auto"
	}
	return cfg, nil
}
