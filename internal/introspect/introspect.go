// Package introspect reads table structures from live databases and turns
// them into schema.Schema values.
//
// SQLite is read through PRAGMA statements and PostgreSQL through
// information_schema. Columns, keys and comments of the selected tables are
// loaded concurrently with a bounded number of workers.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// dialect hides the catalog queries of one database engine.
type dialect interface {
	listRelations(ctx context.Context, db *sql.DB, views bool) ([]string, error)
	table(ctx context.Context, db *sql.DB, name string) (schema.Table, error)
}

// Introspector reads structures from one database connection.
type Introspector struct {
	db      *sql.DB
	driver  string
	dsn     string
	dialect dialect
	workers int
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithWorkers bounds how many tables are loaded at once.
func WithWorkers(n int) Option {
	return func(i *Introspector) {
		if n > 0 {
			i.workers = n
		}
	}
}

// Open connects to a database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Introspector, error) {
	driver, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite && !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.NewConnectionError(driver, target(driver, dsn), err)
	}
	db.SetMaxOpenConns(constants.MaxOpenConnections)

	pingCtx, cancel := context.WithTimeout(ctx, constants.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.NewConnectionError(driver, target(driver, dsn), err)
	}

	logging.FromContext(ctx).Debug().
		Str("driver", driver).
		Str("target", target(driver, dsn)).
		Msg("Connected to database")

	return New(db, driver, dsn, opts...)
}

// OpenURL connects using a connection URL.
func OpenURL(ctx context.Context, rawURL string, opts ...Option) (*Introspector, error) {
	driver, dsn, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return Open(ctx, driver, dsn, opts...)
}

// New wraps an existing connection. The dsn is only used to describe the
// database.
func New(db *sql.DB, driver, dsn string, opts ...Option) (*Introspector, error) {
	driver, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	i := &Introspector{
		db:      db,
		driver:  driver,
		dsn:     dsn,
		workers: constants.MaxConcurrentTables,
	}
	switch driver {
	case DriverSQLite:
		i.dialect = sqliteDialect{}
	case DriverPostgres:
		i.dialect = postgresDialect{}
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Close releases the connection.
func (i *Introspector) Close() error {
	if i.db != nil {
		return i.db.Close()
	}
	return nil
}

// Driver returns the database/sql driver name.
func (i *Introspector) Driver() string { return i.driver }

// Database describes the connected database.
func (i *Introspector) Database() *schema.Database {
	return Describe(i.driver, i.dsn)
}

// ListTables returns the base table names containing filter, sorted.
func (i *Introspector) ListTables(ctx context.Context, filter string) ([]string, error) {
	return i.list(ctx, filter, false)
}

// ListViews returns the view names containing filter, sorted.
func (i *Introspector) ListViews(ctx context.Context, filter string) ([]string, error) {
	return i.list(ctx, filter, true)
}

func (i *Introspector) list(ctx context.Context, filter string, views bool) ([]string, error) {
	kind := "tables"
	if views {
		kind = "views"
	}
	names, err := i.dialect.listRelations(ctx, i.db, views)
	if err != nil {
		return nil, errors.WrapResource("list", kind, "", err)
	}
	if filter == "" {
		return names, nil
	}
	filtered := names[:0]
	for _, n := range names {
		if strings.Contains(n, filter) {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// Table loads one table or view.
func (i *Introspector) Table(ctx context.Context, name string) (schema.Table, error) {
	tables, err := i.dialect.listRelations(ctx, i.db, false)
	if err != nil {
		return schema.Table{}, errors.WrapResource("list", "tables", "", err)
	}
	views, err := i.dialect.listRelations(ctx, i.db, true)
	if err != nil {
		return schema.Table{}, errors.WrapResource("list", "views", "", err)
	}
	if !contains(tables, name) && !contains(views, name) {
		return schema.Table{}, errors.NewNotFoundError("table", name)
	}

	t, err := i.dialect.table(ctx, i.db, name)
	if err != nil {
		return schema.Table{}, errors.WrapResource("introspect", "table", name, err)
	}
	return t, nil
}

// Schema loads every table whose name starts with prefix into a schema
// with the given name.
func (i *Introspector) Schema(ctx context.Context, name, prefix string) (*schema.Schema, error) {
	ctx = logging.WithDriver(logging.WithSchema(ctx, name), i.driver)
	logger := logging.FromContext(ctx)

	names, err := i.ListTables(ctx, "")
	if err != nil {
		return nil, err
	}
	selected := names[:0]
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			selected = append(selected, n)
		}
	}
	logger.Debug().Int("tables", len(selected)).Str("prefix", prefix).Msg("Introspecting tables")

	tables := make([]schema.Table, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for idx, tableName := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := i.dialect.table(gctx, i.db, tableName)
			if err != nil {
				return errors.WrapResource("introspect", "table", tableName, err)
			}
			tables[idx] = t
			logging.FromContext(logging.WithTable(gctx, tableName)).Trace().
				Int("columns", len(t.Columns)).
				Msg("Table loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("introspection %w: %w", errors.ErrCanceled, ctx.Err())
		}
		return nil, err
	}

	s, err := schema.New(name, tables...)
	if err != nil {
		return nil, err
	}
	s.Database = i.Database()
	logger.Info().Int("tables", len(s.Tables)).Int("columns", s.ColumnCount()).Msg("Schema introspected")
	return s, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
