package match

import (
	"cmp"
	"slices"

	"github.com/fvarrui/dbtools/pkg/schema"
)

// candidate is a Score plus the base order positions used to break ties.
type candidate[S, D schema.Entity] struct {
	score  Score[S, D]
	srcIdx int
	dstIdx int
}

// Match pairs sources with destinations one-to-one.
//
// Every source is scored against every destination with fn. Candidates
// whose ratio is not strictly greater than threshold are discarded. The
// rest are committed best first, skipping any candidate whose source or
// destination is already taken. Entities never committed are returned as
// leftovers in base order.
//
// Match is total: it accepts empty collections and any threshold, and the
// input slices are not modified.
func Match[S, D schema.Entity](sources []S, destinations []D, fn Func[S, D], threshold float64) *Result[S, D] {
	srcs := baseOrder(sources)
	dsts := baseOrder(destinations)

	result := &Result[S, D]{
		Stats: Stats{
			Sources:      len(srcs),
			Destinations: len(dsts),
			Candidates:   len(srcs) * len(dsts),
		},
	}

	var pool []candidate[S, D]
	for i, src := range srcs {
		for j, dst := range dsts {
			score := fn(src, dst, threshold)
			if score.Ratio > threshold {
				pool = append(pool, candidate[S, D]{score: score, srcIdx: i, dstIdx: j})
			}
		}
	}
	result.Stats.Eligible = len(pool)

	// Ratio descending, then source base index, then destination base index.
	slices.SortFunc(pool, func(a, b candidate[S, D]) int {
		if c := cmp.Compare(b.score.Ratio, a.score.Ratio); c != 0 {
			return c
		}
		if c := cmp.Compare(a.srcIdx, b.srcIdx); c != 0 {
			return c
		}
		return cmp.Compare(a.dstIdx, b.dstIdx)
	})

	usedSrc := make([]bool, len(srcs))
	usedDst := make([]bool, len(dsts))
	for _, c := range pool {
		if usedSrc[c.srcIdx] || usedDst[c.dstIdx] {
			continue
		}
		usedSrc[c.srcIdx] = true
		usedDst[c.dstIdx] = true
		result.Matched = append(result.Matched, c.score)
	}
	result.Stats.Committed = len(result.Matched)

	for i, src := range srcs {
		if !usedSrc[i] {
			result.UnmatchedSources = append(result.UnmatchedSources, src)
		}
	}
	for j, dst := range dsts {
		if !usedDst[j] {
			result.UnmatchedDestinations = append(result.UnmatchedDestinations, dst)
		}
	}
	return result
}

// baseOrder returns a sorted copy of entities.
func baseOrder[E schema.Entity](entities []E) []E {
	sorted := slices.Clone(entities)
	slices.SortStableFunc(sorted, func(a, b E) int {
		return a.Key().Compare(b.Key())
	})
	return sorted
}
