// Package config provides shared configuration types for rawreorder.
// This package is decoupled from CLI concerns and can be used by the LSP
// and other tools that need to load project configuration.
package config

import (
	"fmt"
	"slices"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

// Oracle modes select how class orders are computed.
const (
	// OracleAuto ranks natively unless a rules script is configured.
	OracleAuto = "auto"
	// OracleNative always uses the stylesheet's own ranker.
	OracleNative = "native"
	// OracleRules generates rules per class and picks the highest order.
	OracleRules = "rules"
)

// ProjectConfig is the project-level configuration shared by the CLI and
// the language server.
type ProjectConfig struct {
	// ClassRegex maps a language id to its class patterns. Languages not
	// listed fall back to the built-in defaults.
	ClassRegex map[string]matcher.LanguageConfig `koanf:"class_regex"`
	// Languages maps file extensions ("svx") to language ids. Keys are
	// written without the leading dot since "." separates config keys.
	Languages map[string]string `koanf:"languages"`
	// Stylesheet is an explicit stylesheet path. Empty means discover it
	// next to each file.
	Stylesheet string `koanf:"stylesheet"`
	// RulesScript is an optional Starlark rule generator.
	RulesScript string   `koanf:"rules_script"`
	Oracle      string   `koanf:"oracle"`
	Ignore      []string `koanf:"ignore"`
	Concurrency int      `koanf:"concurrency"`
}

// ApplyDefaults fills unset fields with built-in defaults.
func (c *ProjectConfig) ApplyDefaults() {
	if c.Oracle == "" {
		c.Oracle = OracleAuto
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Ignore == nil {
		c.Ignore = slices.Clone(DefaultIgnore)
	}

	defaults := DefaultClassRegex()
	if c.ClassRegex == nil {
		c.ClassRegex = make(map[string]matcher.LanguageConfig, len(defaults))
	}
	for lang, cfg := range defaults {
		if _, ok := c.ClassRegex[lang]; !ok {
			c.ClassRegex[lang] = cfg
		}
	}
}

// Validate checks values that decoding cannot.
func (c *ProjectConfig) Validate() error {
	switch c.Oracle {
	case "", OracleAuto, OracleNative, OracleRules:
	default:
		return fmt.Errorf("invalid oracle %q: must be one of %s, %s, %s", c.Oracle, OracleAuto, OracleNative, OracleRules)
	}
	if _, err := matcher.CompileAll(c.ClassRegex); err != nil {
		return fmt.Errorf("invalid class_regex: %w", err)
	}
	return nil
}
