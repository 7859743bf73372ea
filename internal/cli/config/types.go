// Package config provides configuration management for the rawreorder CLI.
//
// This package extends the shared project configuration from
// internal/config with CLI-specific fields and the layered loader.
package config

import (
	intconfig "github.com/Trapfether/tailwind-raw-reorder/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = intconfig.ProjectConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectConfig `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot anchors relative paths. It is the directory of the config
	// file, or the current directory when there is none.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix     = "RAWREORDER_"
)
