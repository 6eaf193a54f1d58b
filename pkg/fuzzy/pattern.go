package fuzzy

import (
	"regexp"
	"strings"
)

// Pattern generates the regex pattern for the configured search term. It is
// pure and cannot fail: all inputs were range-checked by [New]. The pattern
// carries no anchors — anchoring is the caller's choice.
func (c *Config) Pattern() string {
	tokens := tokenize(c.searchTerm)

	fragments := make([]string, len(tokens))
	for i, t := range tokens {
		fragments[i] = c.wordPattern(t)
	}

	return strings.Join(fragments, c.wordGap())
}

// Compile generates the pattern and compiles it with Go's regexp package.
// A compilation failure is wrapped in an [*RegexError] and returned, never
// panicked on.
func (c *Config) Compile() (*regexp.Regexp, error) {
	pattern := c.Pattern()
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &RegexError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// SearchPattern returns the typo-tolerant pattern for term under the default
// configuration. It is the quick entry point for callers that need no
// overrides.
func SearchPattern(term string) (string, error) {
	c, err := New(term)
	if err != nil {
		return "", err
	}
	return c.Pattern(), nil
}
