package fuzzy

import "fmt"

// proximityTier is the max char gap above which gap fragments switch from the
// non-whitespace class to the any-character class. Gaps at or below the
// boundary model typographical insertions and must never cross a word
// boundary via whitespace; larger gaps model proximity queries where whole
// intervening words are expected.
const proximityTier = 10

// charGap returns the fragment inserted between two adjacent required
// characters of a long word.
func (c *Config) charGap() string {
	switch {
	case c.maxCharGap == 0:
		return ""
	case c.maxCharGap <= proximityTier:
		return fmt.Sprintf(`[^\s]{0,%d}`, c.maxCharGap)
	default:
		return fmt.Sprintf(`[\s\S]{0,%d}`, c.maxCharGap)
	}
}

// wordGap returns the junction inserted between two consecutive word
// fragments. Every tier starts with `[^\s]*` to consume the unrequired tail
// of the preceding word (a word fragment only covers its required prefix).
//
// For gaps in the typo tier the junction keeps words separated by mandatory
// whitespace and allows intervening words of bounded length plus up to
// maxCharGap inserted characters before the next word. In the proximity tier
// any bounded span may separate the words.
func (c *Config) wordGap() string {
	switch {
	case c.maxCharGap == 0:
		return `[^\s]*\s+`
	case c.maxCharGap <= proximityTier:
		return fmt.Sprintf(`[^\s]*(?:\s+[^\s]{0,%d})*\s+[^\s]{0,%d}`, c.maxCharGap, c.maxCharGap)
	default:
		return fmt.Sprintf(`[^\s]*[\s\S]{0,%d}`, c.maxCharGap)
	}
}
