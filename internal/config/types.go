// Package config provides configuration management for the sqlens CLI.
//
// Settings come from four layers with the usual precedence: flags over
// environment variables over the config file over built-in defaults.
package config

import (
	"github.com/lineagelabs/sqlens/internal/wrap"
)

// Config holds all CLI configuration options.
type Config struct {
	ModelsDir    string        `koanf:"models_dir"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	Workers      int           `koanf:"workers"`
	CacheSize    int           `koanf:"cache_size"`
	Replacements []ReplaceRule `koanf:"replacements"`
}

// ReplaceRule is one literal substitution applied to SQL text before
// parsing. Rules are listed, not mapped, so their order is preserved.
type ReplaceRule struct {
	Old string `koanf:"old"`
	New string `koanf:"new"`
}

// Rules converts the configured replacements into the wrap package's
// rule type.
func (c *Config) Rules() []wrap.Rule {
	if len(c.Replacements) == 0 {
		return nil
	}
	rules := make([]wrap.Rule, len(c.Replacements))
	for i, r := range c.Replacements {
		rules[i] = wrap.Rule{Old: r.Old, New: r.New}
	}
	return rules
}

// Default configuration values.
const (
	DefaultModelsDir = "models"
	DefaultOutput    = "table"
	DefaultCacheSize = 100
)
