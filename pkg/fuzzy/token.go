package fuzzy

import "strings"

// token is a single word extracted from the search term. Lengths and ratio
// computations operate on runes, not bytes, so multi-byte characters count
// once.
type token struct {
	text  string
	runes []rune
	index int
}

// tokenize splits term on runs of whitespace into an ordered token sequence.
// Empty tokens are discarded. The result is non-empty for any term that
// passed [Config] validation.
func tokenize(term string) []token {
	fields := strings.Fields(term)
	tokens := make([]token, len(fields))
	for i, f := range fields {
		tokens[i] = token{
			text:  f,
			runes: []rune(f),
			index: i,
		}
	}
	return tokens
}
