package fuzzy

import (
	"fmt"
	"strings"
)

// Defaults applied by [New] when the corresponding option is not supplied.
const (
	// DefaultMinWordLength is the word length at or below which a word is
	// matched literally with no typo tolerance.
	DefaultMinWordLength = 3

	// DefaultRequiredCharRatio is the fraction of a long word's characters
	// that must appear, in order, for the word to match.
	DefaultRequiredCharRatio = 0.5

	// DefaultMaxCharGap is the maximum number of characters tolerated between
	// two required characters or between two words.
	DefaultMaxCharGap = 10
)

// Option is a functional option for [New].
type Option func(*Config)

// WithMinWordLength sets the word length at or below which a word is matched
// as an exact literal instead of receiving typo tolerance. Must be at least 1.
func WithMinWordLength(n int) Option {
	return func(c *Config) { c.minWordLength = n }
}

// WithRequiredCharRatio sets the fraction (0.0 to 1.0) of a long word's
// characters that must literally appear, in original order, for a match.
func WithRequiredCharRatio(ratio float64) Option {
	return func(c *Config) { c.requiredCharRatio = ratio }
}

// WithCaseSensitive enables case-sensitive matching. When disabled (the
// default) every letter is rendered as a two-character class covering both
// cases.
func WithCaseSensitive(enabled bool) Option {
	return func(c *Config) { c.caseSensitive = enabled }
}

// WithMaxCharGap sets the maximum span of intervening characters permitted
// between two required characters or between two words. Must not be negative.
// Gaps of 10 or less reject whitespace; larger gaps permit whole intervening
// words.
func WithMaxCharGap(n int) Option {
	return func(c *Config) { c.maxCharGap = n }
}

// Config is a validated, immutable parameter bundle for one search term.
// All methods are safe for concurrent use — a Config is read-only after [New].
type Config struct {
	searchTerm        string
	minWordLength     int
	requiredCharRatio float64
	caseSensitive     bool
	maxCharGap        int
}

// New validates searchTerm together with the supplied options and returns an
// immutable [Config]. Validation failures are reported as an
// [*InvalidPatternError]; no pattern text is generated on failure.
func New(searchTerm string, opts ...Option) (*Config, error) {
	c := &Config{
		searchTerm:        searchTerm,
		minWordLength:     DefaultMinWordLength,
		requiredCharRatio: DefaultRequiredCharRatio,
		maxCharGap:        DefaultMaxCharGap,
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate applies the construction-time range checks. It has no side effects.
func (c *Config) validate() error {
	if strings.TrimSpace(c.searchTerm) == "" {
		return &InvalidPatternError{Reason: "search term is empty"}
	}
	if c.requiredCharRatio < 0 || c.requiredCharRatio > 1 {
		return &InvalidPatternError{
			Reason: fmt.Sprintf("required char ratio %g is out of range [0, 1]", c.requiredCharRatio),
		}
	}
	if c.minWordLength < 1 {
		return &InvalidPatternError{
			Reason: fmt.Sprintf("min word length %d must be at least 1", c.minWordLength),
		}
	}
	if c.maxCharGap < 0 {
		return &InvalidPatternError{
			Reason: fmt.Sprintf("max char gap %d must not be negative", c.maxCharGap),
		}
	}
	return nil
}

// SearchTerm returns the raw search term the Config was built from.
func (c *Config) SearchTerm() string { return c.searchTerm }

// MinWordLength returns the configured minimum word length for typo tolerance.
func (c *Config) MinWordLength() int { return c.minWordLength }

// RequiredCharRatio returns the configured required character ratio.
func (c *Config) RequiredCharRatio() float64 { return c.requiredCharRatio }

// CaseSensitive reports whether matching is case-sensitive.
func (c *Config) CaseSensitive() bool { return c.caseSensitive }

// MaxCharGap returns the configured maximum character gap.
func (c *Config) MaxCharGap() int { return c.maxCharGap }

// Key returns a stable identity for the Config covering the search term and
// every option. Two Configs with equal keys generate identical patterns, so
// the key is suitable for caller-owned caches of compiled matchers.
func (c *Config) Key() string {
	return fmt.Sprintf("%s\x00%d\x00%g\x00%t\x00%d",
		c.searchTerm, c.minWordLength, c.requiredCharRatio, c.caseSensitive, c.maxCharGap)
}
