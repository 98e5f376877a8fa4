package mapper

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/similarity"
)

// Option configures a Mapper.
type Option func(*Mapper) error

// WithThreshold sets both the table and the column threshold.
func WithThreshold(threshold float64) Option {
	return func(m *Mapper) error {
		if err := validateThreshold("threshold", threshold); err != nil {
			return err
		}
		m.tableThreshold = threshold
		m.columnThreshold = threshold
		return nil
	}
}

// WithTableThreshold sets the threshold of the table pass only.
// Table scores add a column score to the name ratio and may exceed 1, so a table
// threshold of 1 still matches tables when the column threshold is lower.
func WithTableThreshold(threshold float64) Option {
	return func(m *Mapper) error {
		if err := validateThreshold("table_threshold", threshold); err != nil {
			return err
		}
		m.tableThreshold = threshold
		return nil
	}
}

// WithColumnThreshold sets the threshold of the nested column passes only.
func WithColumnThreshold(threshold float64) Option {
	return func(m *Mapper) error {
		if err := validateThreshold("column_threshold", threshold); err != nil {
			return err
		}
		m.columnThreshold = threshold
		return nil
	}
}

// WithCache memoizes similarity ratios in c. Pass nil to disable memoization.
func WithCache(c *similarity.Cache) Option {
	return func(m *Mapper) error {
		m.cache = c
		return nil
	}
}

// WithLogger sets the logger used for per-pass statistics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *Mapper) error {
		if logger != nil {
			m.logger = logger
		}
		return nil
	}
}

func validateThreshold(field string, threshold float64) error {
	// The negated form also rejects NaN.
	if !(threshold >= 0 && threshold <= 1) {
		return errors.NewValidationError(field, threshold, fmt.Sprintf("must be within [0, 1], got %v", threshold))
	}
	return nil
}
