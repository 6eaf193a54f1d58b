// Package phonetic reports whether words sound alike using Double Metaphone
// phonetic encoding.
//
// It complements the pattern core: fuzzy patterns tolerate typed variation
// (dropped or inserted characters), while phonetic matching tolerates
// spelling by ear — "fone" matches "phone" even though the two share few
// literal characters. Matching is strictly boolean code overlap; no
// similarity scoring or candidate ranking is performed.
package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Matches reports whether a and b share at least one Double Metaphone code.
// Both arguments may be single words or whitespace-separated phrases; in the
// phrase case any word-to-word code overlap counts as a match.
func Matches(a, b string) bool {
	return codesOverlap(codesFor(a), codesFor(b))
}

// ContainsAny reports whether any whitespace-separated word of text sounds
// like any word of query. Empty text or query never matches.
func ContainsAny(text, query string) bool {
	queryCodes := codesFor(query)
	if len(queryCodes) == 0 {
		return false
	}
	for _, word := range strings.Fields(text) {
		if codesOverlap(wordCodes(word), queryCodes) {
			return true
		}
	}
	return false
}

// codesFor returns the union of Double Metaphone codes for every word of s.
// Empty codes (produced when a word is too short or has no consonants) are
// excluded.
func codesFor(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	codes := make(map[string]struct{}, len(words)*2)
	for _, w := range words {
		for code := range wordCodes(w) {
			codes[code] = struct{}{}
		}
	}
	return codes
}

// wordCodes returns the code set of a single word.
func wordCodes(word string) map[string]struct{} {
	codes := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(strings.ToLower(word))
	if p != "" {
		codes[p] = struct{}{}
	}
	if s != "" {
		codes[s] = struct{}{}
	}
	return codes
}

// codesOverlap reports whether the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	// Iterate over the smaller set.
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
