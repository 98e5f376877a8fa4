package mapper

import (
	"math"
	"sort"

	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// Report is the serializable form of a Result. Matched pairs keep commit
// order, best first. Leftover names are sorted. All ratios are rounded.
type Report struct {
	Matched   []TableMatch `json:"matched" yaml:"matched"`
	Unmatched Unmatched    `json:"unmatched" yaml:"unmatched"`
}

// TableMatch is a matched table pair with its column breakdown.
type TableMatch struct {
	Src     string       `json:"src" yaml:"src"`
	Dst     string       `json:"dst" yaml:"dst"`
	Ratio   float64      `json:"ratio" yaml:"ratio"`
	Columns ColumnReport `json:"columns" yaml:"columns"`
}

// ColumnReport is the column breakdown of a matched table pair.
type ColumnReport struct {
	Matched   []ColumnMatch `json:"matched" yaml:"matched"`
	Unmatched Unmatched     `json:"unmatched" yaml:"unmatched"`
}

// ColumnMatch is a matched column pair.
type ColumnMatch struct {
	Src       ColumnRef `json:"src" yaml:"src"`
	Dst       ColumnRef `json:"dst" yaml:"dst"`
	NameRatio float64   `json:"name_ratio" yaml:"name_ratio"`
	TypeRatio float64   `json:"type_ratio" yaml:"type_ratio"`
}

// ColumnRef identifies a column in a report.
type ColumnRef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Unmatched lists leftover names on both sides.
type Unmatched struct {
	Srcs []string `json:"srcs" yaml:"srcs"`
	Dsts []string `json:"dsts" yaml:"dsts"`
}

// Serialize flattens a Result into a Report. Slices are never nil so
// empty lists encode as [] rather than null.
func Serialize(r *Result) Report {
	report := Report{
		Matched:   []TableMatch{},
		Unmatched: Unmatched{Srcs: []string{}, Dsts: []string{}},
	}
	if r == nil || r.Tables == nil {
		return report
	}

	for _, score := range r.Tables.Matched {
		report.Matched = append(report.Matched, TableMatch{
			Src:     score.Source.Name,
			Dst:     score.Destination.Name,
			Ratio:   Round(score.Ratio),
			Columns: serializeColumns(Columns(score)),
		})
	}
	report.Unmatched = Unmatched{
		Srcs: sortedNames(r.Tables.UnmatchedSources),
		Dsts: sortedNames(r.Tables.UnmatchedDestinations),
	}
	return report
}

func serializeColumns(r *ColumnResult) ColumnReport {
	out := ColumnReport{Matched: make([]ColumnMatch, 0, len(r.Matched))}
	for _, score := range r.Matched {
		out.Matched = append(out.Matched, ColumnMatch{
			Src:       ColumnRef{Name: score.Source.Name, Type: score.Source.Type},
			Dst:       ColumnRef{Name: score.Destination.Name, Type: score.Destination.Type},
			NameRatio: Round(score.Ratio),
			TypeRatio: Round(score.Float(AuxTypeRatio)),
		})
	}
	out.Unmatched = Unmatched{
		Srcs: sortedNames(r.UnmatchedSources),
		Dsts: sortedNames(r.UnmatchedDestinations),
	}
	return out
}

func sortedNames[E schema.Entity](entities []E) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.EntityName())
	}
	sort.Strings(names)
	return names
}

// Round rounds a ratio to constants.RatioPrecision decimals, half away
// from zero.
func Round(ratio float64) float64 {
	p := math.Pow10(constants.RatioPrecision)
	return math.Round(ratio*p) / p
}

// Summary counts the outcome of a reconciliation.
type Summary struct {
	SourceTables           int     `json:"source_tables" yaml:"source_tables"`
	DestinationTables      int     `json:"destination_tables" yaml:"destination_tables"`
	MatchedTables          int     `json:"matched_tables" yaml:"matched_tables"`
	MatchedColumns         int     `json:"matched_columns" yaml:"matched_columns"`
	UnmatchedSourceColumns int     `json:"unmatched_source_columns" yaml:"unmatched_source_columns"`
	UnmatchedDestColumns   int     `json:"unmatched_destination_columns" yaml:"unmatched_destination_columns"`
	Coverage               float64 `json:"coverage" yaml:"coverage"`
}

// Summarize counts matched and leftover entities. Coverage is the share of
// source tables that were matched.
func (rep Report) Summarize() Summary {
	s := Summary{
		MatchedTables:     len(rep.Matched),
		SourceTables:      len(rep.Matched) + len(rep.Unmatched.Srcs),
		DestinationTables: len(rep.Matched) + len(rep.Unmatched.Dsts),
	}
	for _, m := range rep.Matched {
		s.MatchedColumns += len(m.Columns.Matched)
		s.UnmatchedSourceColumns += len(m.Columns.Unmatched.Srcs)
		s.UnmatchedDestColumns += len(m.Columns.Unmatched.Dsts)
	}
	if s.SourceTables > 0 {
		s.Coverage = Round(float64(s.MatchedTables) / float64(s.SourceTables))
	}
	return s
}
