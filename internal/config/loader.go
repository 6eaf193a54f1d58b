package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("server.cache_size %d must not be negative", cfg.Server.CacheSize))
	}

	// Preset duplicate name detection and range checks. Ranges mirror the
	// core's validation so a bad preset is rejected at load time rather than
	// on first use.
	presetNamesSeen := make(map[string]int, len(cfg.Presets))
	for i, p := range cfg.Presets {
		prefix := fmt.Sprintf("presets[%d]", i)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else {
			if prev, ok := presetNamesSeen[p.Name]; ok {
				errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of presets[%d]", prefix, p.Name, prev))
			}
			presetNamesSeen[p.Name] = i
		}
		if p.MinWordLength < 0 {
			errs = append(errs, fmt.Errorf("%s.min_word_length %d must not be negative", prefix, p.MinWordLength))
		}
		if p.RequiredCharRatio < 0 || p.RequiredCharRatio > 1 {
			errs = append(errs, fmt.Errorf("%s.required_char_ratio %g is out of range [0, 1]", prefix, p.RequiredCharRatio))
		}
		if p.MaxCharGap < 0 {
			errs = append(errs, fmt.Errorf("%s.max_char_gap %d must not be negative", prefix, p.MaxCharGap))
		}
	}

	// Default preset must exist when set.
	if cfg.DefaultPreset != "" {
		if _, ok := presetNamesSeen[cfg.DefaultPreset]; !ok {
			errs = append(errs, fmt.Errorf("default_preset %q does not name a configured preset", cfg.DefaultPreset))
		}
	}

	// Scanner
	if cfg.Scan.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("scan.concurrency %d must not be negative", cfg.Scan.Concurrency))
	}

	if len(cfg.Presets) == 0 {
		slog.Debug("no presets configured; pattern generation will use the core defaults")
	}

	return errors.Join(errs...)
}
