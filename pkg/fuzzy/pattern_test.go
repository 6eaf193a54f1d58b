package fuzzy_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/MrWong99/fuzzrex/pkg/fuzzy"
)

// compile builds a Config from term and opts and compiles it, failing the
// test on any error.
func compile(t *testing.T, term string, opts ...fuzzy.Option) *regexp.Regexp {
	t.Helper()
	c, err := fuzzy.New(term, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", term, err)
	}
	re, err := c.Compile()
	if err != nil {
		t.Fatalf("Compile(%q): %v", term, err)
	}
	return re
}

func TestSearchPattern_DefaultScenario(t *testing.T) {
	t.Parallel()

	pattern, err := fuzzy.SearchPattern("hello world")
	if err != nil {
		t.Fatalf("SearchPattern: %v", err)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatalf("generated pattern %q does not compile: %v", pattern, err)
	}

	for _, input := range []string{"hello world", "HELLO WORLD", "hello there world"} {
		if !re.MatchString(input) {
			t.Errorf("pattern %q: MatchString(%q) = false, want true", pattern, input)
		}
	}
	for _, input := range []string{"goodbye", "hello", "world"} {
		if re.MatchString(input) {
			t.Errorf("pattern %q: MatchString(%q) = true, want false", pattern, input)
		}
	}
}

func TestPattern_Reflexivity(t *testing.T) {
	t.Parallel()

	// Every phrase must match itself under the default configuration.
	phrases := []string{
		"hello",
		"hi",
		"a",
		"hello world",
		"test123 456",
		"programming",
		"the quick brown fox jumps over the lazy dog",
		"hello.world$^",
		"привет мир",
	}
	for _, phrase := range phrases {
		re := compile(t, phrase)
		if !re.MatchString(phrase) {
			t.Errorf("pattern for %q does not match the phrase itself", phrase)
		}
	}
}

func TestPattern_SingleWordTolerance(t *testing.T) {
	t.Parallel()

	re := compile(t, "programming")

	for _, input := range []string{"programming", "PROGRAMMING", "programmming", "some programming here"} {
		if !re.MatchString(input) {
			t.Errorf("MatchString(%q) = false, want true", input)
		}
	}
	if re.MatchString("xyz") {
		t.Error(`MatchString("xyz") = true, want false`)
	}
}

func TestPattern_CaseSensitive(t *testing.T) {
	t.Parallel()

	re := compile(t, "Hello World",
		fuzzy.WithMinWordLength(4),
		fuzzy.WithRequiredCharRatio(0.7),
		fuzzy.WithCaseSensitive(true),
		fuzzy.WithMaxCharGap(5),
	)

	if !re.MatchString("Hello World") {
		t.Error(`MatchString("Hello World") = false, want true`)
	}
	if re.MatchString("hello world") {
		t.Error(`MatchString("hello world") = true, want false (case mismatch)`)
	}
	if re.MatchString("HELLO WORLD") {
		t.Error(`MatchString("HELLO WORLD") = true, want false (case mismatch)`)
	}
}

func TestPattern_CaseInsensitiveByDefault(t *testing.T) {
	t.Parallel()

	re := compile(t, "Test")
	for _, input := range []string{"Test", "test", "TEST", "tEsT"} {
		if !re.MatchString(input) {
			t.Errorf("MatchString(%q) = false, want true", input)
		}
	}
}

func TestPattern_Escaping(t *testing.T) {
	t.Parallel()

	// Metacharacters in the term must compile and match only literally.
	re := compile(t, ".*")
	if !re.MatchString("a.*b") {
		t.Error(`pattern for ".*" should match the literal text ".*"`)
	}
	if re.MatchString("ab") {
		t.Error(`pattern for ".*" must not act as a wildcard`)
	}

	re = compile(t, "hello.world$^")
	if !re.MatchString("hello.world$^") {
		t.Error(`pattern for "hello.world$^" does not match the literal phrase`)
	}
	if re.MatchString("helloXworld") {
		t.Error(`pattern for "hello.world$^" must require the literal dot`)
	}

	re = compile(t, "(a+b)")
	if !re.MatchString("x(a+b)y") {
		t.Error(`pattern for "(a+b)" does not match the literal text`)
	}
}

func TestPattern_ShortWordIsExact(t *testing.T) {
	t.Parallel()

	// Words at or below the minimum word length get no typo tolerance:
	// no character may be dropped and no characters may be inserted.
	re := compile(t, "hi")

	if !re.MatchString("hi") {
		t.Error(`MatchString("hi") = false, want true`)
	}
	if !re.MatchString("history") {
		t.Error(`MatchString("history") = false, want true (substring)`)
	}
	if re.MatchString("h i") {
		t.Error(`MatchString("h i") = true, want false (inserted character)`)
	}
	if re.MatchString("h") {
		t.Error(`MatchString("h") = true, want false (dropped character)`)
	}
}

func TestPattern_RequiredCharRatio(t *testing.T) {
	t.Parallel()

	// "search" with the default ratio 0.5 requires "sea" in order.
	re := compile(t, "search")

	if !re.MatchString("seXaXrch") {
		t.Error(`MatchString("seXaXrch") = false, want true (insertions within gaps)`)
	}
	if re.MatchString("serch") {
		t.Error(`MatchString("serch") = true, want false (required "a" missing)`)
	}
	if re.MatchString("aes") {
		t.Error(`MatchString("aes") = true, want false (required characters out of order)`)
	}
}

func TestPattern_BoundaryRatios(t *testing.T) {
	t.Parallel()

	// Ratio 1.0: every character is required.
	re := compile(t, "test", fuzzy.WithRequiredCharRatio(1.0), fuzzy.WithMinWordLength(1))
	if !re.MatchString("test") {
		t.Error(`ratio 1.0: MatchString("test") = false, want true`)
	}
	if re.MatchString("tes") {
		t.Error(`ratio 1.0: MatchString("tes") = true, want false`)
	}

	// Ratio 0.0: clamped to a single required character.
	re = compile(t, "test", fuzzy.WithRequiredCharRatio(0.0), fuzzy.WithMinWordLength(1))
	if !re.MatchString("t") {
		t.Error(`ratio 0.0: MatchString("t") = false, want true`)
	}
}

func TestPattern_GapTiers(t *testing.T) {
	t.Parallel()

	// Zero gap: required characters must be contiguous.
	re := compile(t, "test", fuzzy.WithMaxCharGap(0), fuzzy.WithRequiredCharRatio(1.0), fuzzy.WithMinWordLength(1))
	if !re.MatchString("test") {
		t.Error(`gap 0: MatchString("test") = false, want true`)
	}
	if re.MatchString("teXst") {
		t.Error(`gap 0: MatchString("teXst") = true, want false`)
	}

	// Typo tier: insertions tolerated, whitespace is not.
	re = compile(t, "hello", fuzzy.WithMaxCharGap(2))
	if !re.MatchString("heello") {
		t.Error(`gap 2: MatchString("heello") = false, want true`)
	}
	if re.MatchString("h e l l o") {
		t.Error(`gap 2: MatchString("h e l l o") = true, want false`)
	}

	// Proximity tier: whitespace within gaps is tolerated.
	re = compile(t, "hello", fuzzy.WithMaxCharGap(15))
	if !re.MatchString("h e l l o") {
		t.Error(`gap 15: MatchString("h e l l o") = false, want true`)
	}
}

func TestPattern_MultiWordSeparation(t *testing.T) {
	t.Parallel()

	// In the typo tier words may not fuse: whitespace between them is
	// mandatory.
	re := compile(t, "hello world")
	if re.MatchString("helloworld") {
		t.Error(`MatchString("helloworld") = true, want false (typo-tier gap must not fuse words)`)
	}

	// Multiple whitespace kinds separate words.
	if !re.MatchString("hello \t\n world") {
		t.Error(`MatchString("hello \t\n world") = false, want true`)
	}
}

func TestPattern_UnicodePhrase(t *testing.T) {
	t.Parallel()

	re := compile(t, "привет мир")
	for _, input := range []string{"привет мир", "ПРИВЕТ МИР", "привет добрый мир"} {
		if !re.MatchString(input) {
			t.Errorf("MatchString(%q) = false, want true", input)
		}
	}
	if re.MatchString("до свидания") {
		t.Error(`MatchString("до свидания") = true, want false`)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		term string
		opts []fuzzy.Option
	}{
		{name: "empty term", term: ""},
		{name: "whitespace-only term", term: "   \t\n"},
		{name: "ratio above range", term: "hello", opts: []fuzzy.Option{fuzzy.WithRequiredCharRatio(1.5)}},
		{name: "ratio below range", term: "hello", opts: []fuzzy.Option{fuzzy.WithRequiredCharRatio(-0.1)}},
		{name: "zero min word length", term: "hello", opts: []fuzzy.Option{fuzzy.WithMinWordLength(0)}},
		{name: "negative max char gap", term: "hello", opts: []fuzzy.Option{fuzzy.WithMaxCharGap(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := fuzzy.New(tt.term, tt.opts...)
			if err == nil {
				t.Fatalf("New(%q, opts) = nil error, want *InvalidPatternError", tt.term)
			}
			var invalid *fuzzy.InvalidPatternError
			if !errors.As(err, &invalid) {
				t.Errorf("New(%q, opts) error type = %T, want *InvalidPatternError", tt.term, err)
			}
		})
	}
}

func TestSearchPattern_EmptyTerm(t *testing.T) {
	t.Parallel()

	_, err := fuzzy.SearchPattern("")
	var invalid *fuzzy.InvalidPatternError
	if !errors.As(err, &invalid) {
		t.Fatalf("SearchPattern(\"\") error = %v, want *InvalidPatternError", err)
	}
}

func TestConfig_Key(t *testing.T) {
	t.Parallel()

	a, err := fuzzy.New("hello world")
	if err != nil {
		t.Fatal(err)
	}
	b, err := fuzzy.New("hello world")
	if err != nil {
		t.Fatal(err)
	}
	c, err := fuzzy.New("hello world", fuzzy.WithMaxCharGap(2))
	if err != nil {
		t.Fatal(err)
	}

	if a.Key() != b.Key() {
		t.Errorf("equal configs produced different keys: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("different configs produced the same key %q", a.Key())
	}
}

func TestRegexError_Unwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("engine said no")
	err := &fuzzy.RegexError{Pattern: "(?P<broken", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("RegexError does not unwrap to the engine error")
	}
	if err.Error() == "" {
		t.Error("RegexError.Error() is empty")
	}
}
