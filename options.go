package dbtools

import (
	"github.com/rs/zerolog"

	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the client configuration.
type options struct {
	tableThreshold  float64
	columnThreshold float64
	include         []string
	exclude         []string
	prefix          string
	cache           bool
	workers         int
	logger          *zerolog.Logger
}

func defaults() *options {
	return &options{
		tableThreshold:  constants.DefaultThreshold,
		columnThreshold: constants.DefaultThreshold,
		cache:           true,
		workers:         constants.MaxConcurrentTables,
		logger:          logging.Default(),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithThreshold sets both the table and the column threshold.
func WithThreshold(threshold float64) Option {
	return func(o *options) error {
		o.tableThreshold = threshold
		o.columnThreshold = threshold
		return nil
	}
}

// WithTableThreshold sets the threshold of the table pass.
func WithTableThreshold(threshold float64) Option {
	return func(o *options) error {
		o.tableThreshold = threshold
		return nil
	}
}

// WithColumnThreshold sets the threshold of the column passes.
func WithColumnThreshold(threshold float64) Option {
	return func(o *options) error {
		o.columnThreshold = threshold
		return nil
	}
}

// WithInclude keeps only tables matching one of the patterns.
func WithInclude(patterns ...string) Option {
	return func(o *options) error {
		o.include = append(o.include, patterns...)
		return nil
	}
}

// WithExclude drops tables matching one of the patterns.
func WithExclude(patterns ...string) Option {
	return func(o *options) error {
		o.exclude = append(o.exclude, patterns...)
		return nil
	}
}

// WithPrefix keeps only tables whose names start with prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) error {
		o.prefix = prefix
		return nil
	}
}

// WithCache enables or disables the per-run similarity cache.
func WithCache(enabled bool) Option {
	return func(o *options) error {
		o.cache = enabled
		return nil
	}
}

// WithWorkers bounds the number of tables introspected concurrently.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewValidationError("workers", n, "must be at least 1")
		}
		o.workers = n
		return nil
	}
}

// WithLogger sets the logger used by the mapper.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "must not be nil")
		}
		o.logger = logger
		return nil
	}
}
