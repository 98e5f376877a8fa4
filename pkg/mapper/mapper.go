// Package mapper reconciles two database schemas.
//
// A Mapper matches the tables of a source schema against the tables of a
// destination schema. Each candidate table pair is scored by name
// similarity plus a nested column matching pass, so a table score carries
// its full column breakdown. The result serializes into a Report with
// rounded ratios and sorted leftovers.
//
// Example usage:
//
//	m, err := mapper.New(mapper.WithThreshold(0.7))
//	if err != nil {
//		return err
//	}
//	result := m.Reconcile(src, dst)
//	report := mapper.Serialize(result)
package mapper

import (
	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/logging"
	"github.com/fvarrui/dbtools/pkg/match"
	"github.com/fvarrui/dbtools/pkg/schema"
	"github.com/fvarrui/dbtools/pkg/similarity"
)

// Mapper binds the table and column scorers to the matcher.
type Mapper struct {
	tableThreshold  float64
	columnThreshold float64
	cache           *similarity.Cache
	logger          *zerolog.Logger
}

// Result is the outcome of a reconciliation.
type Result struct {
	Source      *schema.Schema
	Destination *schema.Schema
	Tables      *TableResult
}

// New creates a Mapper. Both thresholds default to constants.DefaultThreshold.
func New(opts ...Option) (*Mapper, error) {
	m := &Mapper{
		tableThreshold:  constants.DefaultThreshold,
		columnThreshold: constants.DefaultThreshold,
		logger:          logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// TableThreshold returns the threshold of the table pass.
func (m *Mapper) TableThreshold() float64 { return m.tableThreshold }

// ColumnThreshold returns the threshold of the column passes.
func (m *Mapper) ColumnThreshold() float64 { return m.columnThreshold }

// Reconcile matches the tables of src against the tables of dst. Nil
// schemas are treated as empty.
func (m *Mapper) Reconcile(src, dst *schema.Schema) *Result {
	var srcTables, dstTables []schema.Table
	if src != nil {
		srcTables = src.Tables
	}
	if dst != nil {
		dstTables = dst.Tables
	}

	tables := match.Match(srcTables, dstTables, m.scoreTables, m.tableThreshold)

	m.logger.Debug().
		Int("sources", tables.Stats.Sources).
		Int("destinations", tables.Stats.Destinations).
		Int("candidates", tables.Stats.Candidates).
		Int("eligible", tables.Stats.Eligible).
		Int("matched", tables.Stats.Committed).
		Float64("table_threshold", m.tableThreshold).
		Float64("column_threshold", m.columnThreshold).
		Msg("Tables reconciled")

	if hits, misses := m.cache.Stats(); hits+misses > 0 {
		m.logger.Trace().
			Uint64("hits", hits).
			Uint64("misses", misses).
			Msg("Similarity cache")
	}

	return &Result{Source: src, Destination: dst, Tables: tables}
}

// ScoreTables scores two tables with this mapper's column threshold and cache.
func (m *Mapper) ScoreTables(src, dst schema.Table) TableScore {
	return scoreTables(m.cache, src, dst, m.columnThreshold)
}

// ScoreColumns scores two columns with this mapper's column threshold and cache.
func (m *Mapper) ScoreColumns(src, dst schema.Column) ColumnScore {
	return scoreColumns(m.cache, src, dst, m.columnThreshold)
}

// scoreTables adapts ScoreTables to match.Func. The table pass threshold is
// applied by the matcher and does not reach the column pass.
func (m *Mapper) scoreTables(src, dst schema.Table, _ float64) TableScore {
	return m.ScoreTables(src, dst)
}

// Reconcile is a convenience wrapper using one threshold for both levels.
func Reconcile(src, dst *schema.Schema, threshold float64) (*Result, error) {
	m, err := New(WithThreshold(threshold))
	if err != nil {
		return nil, err
	}
	return m.Reconcile(src, dst), nil
}
