// Package config provides the configuration schema, loader, and file watcher
// for the fuzzrex command and its HTTP server.
package config

import "github.com/MrWong99/fuzzrex/pkg/fuzzy"

// LogLevel controls log verbosity for fuzzrex.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for fuzzrex.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`

	// DefaultPreset names the preset applied when a request or command line
	// does not select one. Empty means the built-in core defaults.
	DefaultPreset string `yaml:"default_preset"`

	// Presets are named option bundles for pattern generation.
	Presets []Preset `yaml:"presets"`

	Scan ScanConfig `yaml:"scan"`
}

// ServerConfig holds network, logging, and caching settings for server mode.
type ServerConfig struct {
	// ListenAddr is the TCP address the HTTP server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// CacheSize is the maximum number of compiled matchers kept in the
	// server's LRU cache. Zero means the built-in default.
	CacheSize int `yaml:"cache_size"`
}

// Preset is a named bundle of pattern-generation options. A zero-valued
// numeric field means "unset": the core default applies. In particular a
// required char ratio of exactly 0 cannot be expressed through a preset; use
// the core API directly for that.
type Preset struct {
	// Name identifies the preset in requests and on the command line.
	Name string `yaml:"name"`

	// MinWordLength is the word length at or below which words are matched
	// literally. Zero means unset.
	MinWordLength int `yaml:"min_word_length"`

	// RequiredCharRatio is the fraction of a long word's characters required
	// for a match, in (0, 1]. Zero means unset.
	RequiredCharRatio float64 `yaml:"required_char_ratio"`

	// CaseSensitive enables case-sensitive matching.
	CaseSensitive bool `yaml:"case_sensitive"`

	// MaxCharGap is the maximum span of intervening characters between
	// required characters or words. Zero means unset.
	MaxCharGap int `yaml:"max_char_gap"`
}

// Options converts the preset into core options, skipping unset fields so
// the core defaults apply.
func (p Preset) Options() []fuzzy.Option {
	var opts []fuzzy.Option
	if p.MinWordLength != 0 {
		opts = append(opts, fuzzy.WithMinWordLength(p.MinWordLength))
	}
	if p.RequiredCharRatio != 0 {
		opts = append(opts, fuzzy.WithRequiredCharRatio(p.RequiredCharRatio))
	}
	if p.CaseSensitive {
		opts = append(opts, fuzzy.WithCaseSensitive(true))
	}
	if p.MaxCharGap != 0 {
		opts = append(opts, fuzzy.WithMaxCharGap(p.MaxCharGap))
	}
	return opts
}

// ScanConfig holds settings for the concurrent file scanner.
type ScanConfig struct {
	// Concurrency is the maximum number of files scanned in parallel.
	// Zero means the built-in default.
	Concurrency int `yaml:"concurrency"`

	// Phonetic additionally accepts lines containing a word that sounds like
	// the search term even when the generated pattern does not match them.
	Phonetic bool `yaml:"phonetic"`
}

// PresetByName returns the preset with the given name.
func (c *Config) PresetByName(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
