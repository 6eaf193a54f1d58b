// Package fuzzy turns a free-form search phrase into a single regular
// expression that matches the phrase tolerant to typos, inserted characters,
// and case variation.
//
// The generated pattern is a plain string usable with any regex engine that
// supports non-capturing groups, bounded repetition and character classes;
// [Config.Compile] additionally hands it to Go's regexp package and returns a
// ready matcher.
//
// Pattern construction works per word:
//
//   - Short words (length up to the minimum word length, default 3) are
//     rendered as an exact, fully escaped literal. Short words carry too few
//     characters for ratio-based tolerance to be meaningful.
//
//   - Longer words require only a leading fraction of their characters
//     (default half, rounded up) to appear in order, with a bounded gap of
//     intervening characters allowed between each required pair. Extra or
//     misspelled characters inside the word are skipped by the gaps.
//
// Gaps are tiered by the configured maximum character gap: a zero gap forces
// contiguous characters, gaps up to 10 permit non-whitespace insertions only
// (typo tolerance that cannot leak across word boundaries), and larger gaps
// permit any characters including whitespace (proximity search across whole
// intervening words).
//
// Case-insensitive matching renders every letter as a two-character class
// ("[hH]") rather than setting an engine-wide flag, so generated fragments
// stay correct when composed with case-sensitive fragments elsewhere.
//
// Pattern generation is purely computational and allocation-local: a [Config]
// is immutable after [New] and safe for concurrent use. The package never
// caches compiled patterns; callers wanting reuse should key their own cache
// on [Config.Key].
package fuzzy
