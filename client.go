// Package dbtools is the entry point of the schema reconciliation toolkit.
// It ties together schema loading, live database introspection, the
// table and column mapper and the relationship checker behind one client.
//
// Example usage:
//
//	c, err := dbtools.New(
//	    dbtools.WithThreshold(0.6),
//	    dbtools.WithExclude("*_tmp", "audit_*"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Sources are schema files or connection URLs
//	report, err := c.Map(ctx, "legacy.yaml", "postgres://app@db.local/crm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range report.Matched {
//	    fmt.Printf("%s -> %s (%.2f)\n", m.Src, m.Dst, m.Ratio)
//	}
package dbtools

import (
	"context"
	"strings"

	"github.com/fvarrui/dbtools/internal/introspect"
	"github.com/fvarrui/dbtools/pkg/check"
	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
	"github.com/fvarrui/dbtools/pkg/mapper"
	"github.com/fvarrui/dbtools/pkg/schema"
	"github.com/fvarrui/dbtools/pkg/similarity"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Loader reads schemas from files.
type Loader interface {
	// Load reads a JSON or YAML schema file and applies the configured filters.
	Load(path string) (*schema.Schema, error)
}

// Introspection reads schemas from live databases.
type Introspection interface {
	// Introspect connects to the database at url and reads its tables.
	Introspect(ctx context.Context, url string) (*schema.Schema, error)

	// IntrospectDSN is Introspect for a driver name and the DSN it expects.
	IntrospectDSN(ctx context.Context, driver, dsn string) (*schema.Schema, error)

	// Source loads ref as a connection URL when it has a scheme and as a
	// schema file otherwise.
	Source(ctx context.Context, ref string) (*schema.Schema, error)
}

// Reconciler maps one schema onto another.
type Reconciler interface {
	// Reconcile matches the tables and columns of src against dst.
	Reconcile(src, dst *schema.Schema) (*mapper.Result, error)

	// Map resolves both references and returns the serialized report.
	Map(ctx context.Context, srcRef, dstRef string) (mapper.Report, error)
}

// Checker inspects relationships inside a schema.
type Checker interface {
	Check(s *schema.Schema) check.Report
}

// Client is the dbtools facade.
type Client interface {
	Loader
	Introspection
	Reconciler
	Checker
	Hooks
}

type client struct {
	options *options
	hooks   *hooks
}

// New creates a Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &client{options: o, hooks: newHooks()}, nil
}

// Load implements Loader.
func (c *client) Load(path string) (*schema.Schema, error) {
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("path", path).Int("tables", len(s.Tables)).Msg("Schema loaded")
	return c.filter(s)
}

// Introspect implements Introspection.
func (c *client) Introspect(ctx context.Context, url string) (*schema.Schema, error) {
	driver, dsn, err := introspect.ParseURL(url)
	if err != nil {
		return nil, err
	}
	s, err := c.IntrospectDSN(ctx, driver, dsn)
	if err != nil {
		return nil, errors.WrapResource("introspect", "schema", introspect.Redact(url), err)
	}
	return s, nil
}

// IntrospectDSN implements Introspection.
func (c *client) IntrospectDSN(ctx context.Context, driver, dsn string) (*schema.Schema, error) {
	in, err := introspect.Open(ctx, driver, dsn, introspect.WithWorkers(c.options.workers))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			logging.FromContext(ctx).Warn().Err(cerr).Msg("Failed to close database connection")
		}
	}()

	s, err := in.Schema(ctx, in.Database().Database, c.options.prefix)
	if err != nil {
		return nil, err
	}
	return c.filter(s)
}

// Source implements Introspection.
func (c *client) Source(ctx context.Context, ref string) (*schema.Schema, error) {
	if IsURL(ref) {
		return c.Introspect(ctx, ref)
	}
	s, err := c.Load(ref)
	if err != nil {
		return nil, err
	}
	return s.Prefixed(c.options.prefix), nil
}

// Reconcile implements Reconciler. Each call gets a fresh similarity cache
// when caching is enabled.
func (c *client) Reconcile(src, dst *schema.Schema) (*mapper.Result, error) {
	opts := []mapper.Option{
		mapper.WithTableThreshold(c.options.tableThreshold),
		mapper.WithColumnThreshold(c.options.columnThreshold),
		mapper.WithLogger(c.options.logger),
	}
	if c.options.cache {
		opts = append(opts, mapper.WithCache(similarity.NewCache()))
	}

	m, err := mapper.New(opts...)
	if err != nil {
		return nil, err
	}

	result := m.Reconcile(src, dst)
	c.hooks.trigger(result)
	return result, nil
}

// Map implements Reconciler.
func (c *client) Map(ctx context.Context, srcRef, dstRef string) (mapper.Report, error) {
	src, err := c.Source(ctx, srcRef)
	if err != nil {
		return mapper.Report{}, errors.WrapResource("load", "source schema", redactRef(srcRef), err)
	}
	dst, err := c.Source(ctx, dstRef)
	if err != nil {
		return mapper.Report{}, errors.WrapResource("load", "destination schema", redactRef(dstRef), err)
	}

	result, err := c.Reconcile(src, dst)
	if err != nil {
		return mapper.Report{}, err
	}
	return mapper.Serialize(result), nil
}

// Check implements Checker.
func (c *client) Check(s *schema.Schema) check.Report {
	return check.Run(s)
}

func (c *client) filter(s *schema.Schema) (*schema.Schema, error) {
	if len(c.options.include) == 0 && len(c.options.exclude) == 0 {
		return s, nil
	}
	return s.Filter(c.options.include, c.options.exclude)
}

// IsURL reports whether ref is a connection URL rather than a file path.
func IsURL(ref string) bool {
	scheme, _, ok := strings.Cut(ref, "://")
	return ok && scheme != "" && !strings.ContainsAny(scheme, `/\`)
}

func redactRef(ref string) string {
	if IsURL(ref) {
		return introspect.Redact(ref)
	}
	return ref
}
