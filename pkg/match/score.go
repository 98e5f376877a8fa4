package match

import (
	"fmt"

	"github.com/fvarrui/dbtools/pkg/schema"
)

// PairKey identifies a Score by the identities of its two entities.
type PairKey struct {
	Source      schema.Key
	Destination schema.Key
}

// Score is a scored candidate pairing. Ratio is non-negative but not
// bounded to [0, 1] for composite entities, so ratios are only comparable
// within one matching pass.
type Score[S, D schema.Entity] struct {
	Source      S
	Destination D
	Ratio       float64
	Aux         map[string]any
}

// Func scores a source against a destination.
type Func[S, D schema.Entity] func(src S, dst D, threshold float64) Score[S, D]

// NewScore creates a Score with an empty auxiliary map.
func NewScore[S, D schema.Entity](src S, dst D, ratio float64) Score[S, D] {
	return Score[S, D]{
		Source:      src,
		Destination: dst,
		Ratio:       ratio,
		Aux:         make(map[string]any),
	}
}

// Key returns the identity of the score. Ratio does not take part.
func (s Score[S, D]) Key() PairKey {
	return PairKey{Source: s.Source.Key(), Destination: s.Destination.Key()}
}

// Equal reports whether both scores pair the same entities.
func (s Score[S, D]) Equal(other Score[S, D]) bool {
	return s.Key() == other.Key()
}

// Float returns a float64 auxiliary value, or 0 if absent.
func (s Score[S, D]) Float(key string) float64 {
	if v, ok := s.Aux[key].(float64); ok {
		return v
	}
	return 0
}

// String returns a short description for logs.
func (s Score[S, D]) String() string {
	return fmt.Sprintf("%s -> %s (%.4f)", s.Source.Key(), s.Destination.Key(), s.Ratio)
}
