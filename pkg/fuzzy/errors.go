package fuzzy

import "fmt"

// InvalidPatternError reports a search term or configuration value that can
// never produce a valid pattern. It is returned by [New] before any pattern
// text is generated, so a partially built or malformed pattern is never
// observable.
type InvalidPatternError struct {
	// Reason describes the validation rule that failed.
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return "fuzzy: invalid pattern: " + e.Reason
}

// RegexError reports that the regexp engine rejected a generated pattern.
// Given correct escaping this should not happen for validated input; when it
// does it signals a generator defect, so the engine's error is surfaced
// unaltered rather than suppressed.
type RegexError struct {
	// Pattern is the generated pattern that failed to compile.
	Pattern string

	// Err is the underlying error from the regexp engine.
	Err error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("fuzzy: compile %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying regexp engine error.
func (e *RegexError) Unwrap() error { return e.Err }
