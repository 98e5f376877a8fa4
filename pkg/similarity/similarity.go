// Package similarity computes normalized textual similarity between strings.
//
// Ratio follows the matching-blocks method: find the longest contiguous
// block common to both strings, recurse on the pieces to its left and to
// its right, and sum the matched lengths M. The ratio is 2*M / (|a|+|b|).
// Strings are compared rune by rune with the autojunk heuristic disabled.
package similarity

import "github.com/pmezard/go-difflib/difflib"

// Ratio returns the similarity of a and b in [0, 1]. Two empty strings are
// identical and score 1.
func Ratio(a, b string) float64 {
	ra, rb := runes(a), runes(b)
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	return matcher(ra, rb).Ratio()
}

// Matches returns the number of runes covered by matching blocks.
func Matches(a, b string) int {
	total := 0
	for _, m := range matcher(runes(a), runes(b)).GetMatchingBlocks() {
		total += m.Size
	}
	return total
}

func matcher(a, b []string) *difflib.SequenceMatcher {
	return difflib.NewMatcherWithJunk(a, b, false, nil)
}

// runes splits s into one element per rune.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
