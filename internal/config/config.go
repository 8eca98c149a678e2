// Package config loads patchkit settings from a config file and environment
// variables via viper. Every option has a working default; the config file is
// optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ColorMode controls when diff output is colorized
type ColorMode string

const (
	// ColorAuto colorizes only when stdout is a terminal
	ColorAuto ColorMode = "auto"
	// ColorAlways colorizes unconditionally
	ColorAlways ColorMode = "always"
	// ColorNever disables colorized output
	ColorNever ColorMode = "never"
)

// Config holds all configuration options for the application
type Config struct {
	// Output configuration
	Color        ColorMode `mapstructure:"color"`
	ContextLines int       `mapstructure:"context_lines"` // shown around hunks, display only
	TrimDiffs    bool      `mapstructure:"trim_diffs"`    // strip shared indentation from displayed diffs

	// Apply configuration
	Root       string `mapstructure:"root"`        // directory patches apply under
	ReplaceAll bool   `mapstructure:"replace_all"` // default for the replace command

	// Logging configuration
	Debug   bool   `mapstructure:"debug"`    // Enable debug logging
	LogFile string `mapstructure:"log_file"` // Path to log file
}

const (
	// Default configuration values
	DefaultContextLines = 3
	DefaultConfigDir    = ".patchkit"
)

// Load loads configuration from the config file and environment variables.
func Load() (*Config, error) {
	config := &Config{
		Color:        ColorAuto,
		ContextLines: DefaultContextLines,
		TrimDiffs:    true,
		Root:         getWorkingDirectory(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getConfigDir())

	v.SetEnvPrefix("PATCHKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	switch config.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("invalid color mode %q", config.Color)
	}
	if config.ContextLines < 0 {
		return nil, fmt.Errorf("context_lines must not be negative")
	}

	return config, nil
}

// getConfigDir returns the path to the config directory
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, DefaultConfigDir)
}

// getWorkingDirectory returns the current working directory
func getWorkingDirectory() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
