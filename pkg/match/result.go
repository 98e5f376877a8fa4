package match

import (
	"github.com/fvarrui/dbtools/pkg/schema"
)

// Result is the outcome of one matching pass. Every source appears exactly
// once across Matched and UnmatchedSources, and likewise for destinations.
// Matched is in commit order, best first. Leftovers are in base order.
type Result[S, D schema.Entity] struct {
	Matched               []Score[S, D]
	UnmatchedSources      []S
	UnmatchedDestinations []D
	Stats                 Stats
}

// Stats describes the work done by a matching pass.
type Stats struct {
	Sources      int
	Destinations int
	// Candidates is the size of the cross product.
	Candidates int
	// Eligible counts candidates strictly above the threshold.
	Eligible int
	// Committed counts pairs moved into Matched.
	Committed int
}

// DestinationFor returns the committed score whose source has the given key.
func (r *Result[S, D]) DestinationFor(src schema.Key) (Score[S, D], bool) {
	for _, s := range r.Matched {
		if s.Source.Key() == src {
			return s, true
		}
	}
	return Score[S, D]{}, false
}

// SourceFor returns the committed score whose destination has the given key.
func (r *Result[S, D]) SourceFor(dst schema.Key) (Score[S, D], bool) {
	for _, s := range r.Matched {
		if s.Destination.Key() == dst {
			return s, true
		}
	}
	return Score[S, D]{}, false
}

// Sum returns the total ratio of committed pairs.
func (r *Result[S, D]) Sum() float64 {
	total := 0.0
	for _, s := range r.Matched {
		total += s.Ratio
	}
	return total
}

// Empty reports whether nothing was matched.
func (r *Result[S, D]) Empty() bool {
	return len(r.Matched) == 0
}
