// Package config provides configuration loading and management for mnistview.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"mnistview/pkg/render"
)

// Display modes
const (
	ModeAverage = "average"
	ModeRaw     = "raw"
	ModeSummary = "summary"
)

// Modes lists every accepted display mode
var Modes = []string{ModeAverage, ModeRaw, ModeSummary}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Display parameters
	Display struct {
		// Mode selects what is drawn: per-label averages, raw images or a statistics table
		Mode string `yaml:"mode"`

		// Limit is the number of images drawn in raw mode
		Limit int `yaml:"limit"`
	} `yaml:"display"`

	// Terminal rendering parameters
	Render struct {
		// Color is one of truecolor, ansi256, ansi, ascii or auto
		Color string `yaml:"color"`

		// BlockWidth is the number of terminal cells drawn per pixel
		BlockWidth int `yaml:"blockWidth"`
	} `yaml:"render"`

	// PNG export parameters
	Export struct {
		// Dir enables export when non-empty
		Dir string `yaml:"dir"`

		// Scale is the integer upscaling factor
		Scale int `yaml:"scale"`

		// Blur is the Gaussian blur sigma; zero disables blurring
		Blur float64 `yaml:"blur"`
	} `yaml:"export"`

	Log struct {
		// Level is a zap level name: debug, info, warn or error
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.Mode = ModeAverage
	cfg.Display.Limit = 10

	// Truecolor blocks two cells wide
	cfg.Render.Color = render.ColorTrue
	cfg.Render.BlockWidth = render.DefaultBlockWidth

	cfg.Export.Scale = 10
	cfg.Export.Blur = 0

	// Keep stdout free of log noise by default
	cfg.Log.Level = "warn"

	return cfg
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if !slices.Contains(Modes, c.Display.Mode) {
		return fmt.Errorf("invalid display mode %q (expected one of %v)", c.Display.Mode, Modes)
	}
	if c.Display.Limit < 0 {
		return fmt.Errorf("display limit must be non-negative, got %d", c.Display.Limit)
	}
	if !slices.Contains(render.ColorModes, c.Render.Color) {
		return fmt.Errorf("invalid color mode %q (expected one of %v)", c.Render.Color, render.ColorModes)
	}
	if c.Render.BlockWidth <= 0 {
		return fmt.Errorf("block width must be positive, got %d", c.Render.BlockWidth)
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("export scale must be positive, got %d", c.Export.Scale)
	}
	if c.Export.Blur < 0 {
		return fmt.Errorf("export blur must be non-negative, got %f", c.Export.Blur)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
