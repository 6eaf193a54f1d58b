package fuzzy

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// wordPattern returns the regex fragment for a single token, wrapped in a
// non-capturing group.
//
// Words at or below the minimum word length render as an exact contiguous
// literal: they have too few characters for ratio-based tolerance and the
// false-positive risk of dropping characters is high. Longer words require
// their first requiredCount characters in order, with an intra-word gap
// fragment between each adjacent pair.
func (c *Config) wordPattern(t token) string {
	rendered := make([]string, len(t.runes))
	for i, r := range t.runes {
		rendered[i] = c.renderRune(r)
	}

	if len(t.runes) <= c.minWordLength {
		return "(?:" + strings.Join(rendered, "") + ")"
	}

	required := requiredCount(len(t.runes), c.requiredCharRatio)
	return "(?:" + strings.Join(rendered[:required], c.charGap()) + ")"
}

// requiredCount returns ceil(length*ratio) clamped to [1, length].
func requiredCount(length int, ratio float64) int {
	// The epsilon guards against float artifacts such as 10*0.7 evaluating
	// to 7.000000000000001 and ceiling to 8.
	n := int(math.Ceil(float64(length)*ratio - 1e-9))
	if n < 1 {
		n = 1
	}
	if n > length {
		n = length
	}
	return n
}

// renderRune renders one literal character of user input as a regex fragment.
// Every character is escaped; this is a correctness requirement, not an
// optimisation. Under case-insensitive matching, letters with two distinct
// case forms become a two-character class so the fragment stays correct even
// when composed with case-sensitive fragments elsewhere.
func (c *Config) renderRune(r rune) string {
	if c.caseSensitive {
		return regexp.QuoteMeta(string(r))
	}
	lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
	if lower == upper {
		return regexp.QuoteMeta(string(r))
	}
	return "[" + classEscape(lower) + classEscape(upper) + "]"
}

// classEscape escapes r for literal use inside a character class.
func classEscape(r rune) string {
	switch r {
	case '\\', ']', '[', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}
