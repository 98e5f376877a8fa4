package introspect

import (
	"context"
	"strings"

	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/logging"
)

// Rows is the result of an ad-hoc query. Values keep the order of Columns.
type Rows struct {
	Columns []string `json:"columns" yaml:"columns"`
	Values  [][]any  `json:"rows" yaml:"rows"`
}

// Len returns the number of rows.
func (r *Rows) Len() int { return len(r.Values) }

// Query runs a SQL statement and collects every row it returns. Statements
// that return nothing yield an empty result.
func (i *Introspector) Query(ctx context.Context, query string) (*Rows, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewValidationError("sql", query, "query is empty")
	}

	logging.FromContext(ctx).Debug().Str("sql", query).Msg("Running query")

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.WrapResource("query", "database", i.Database().Database, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.WrapResource("query", "database", i.Database().Database, err)
	}

	result := &Rows{Columns: columns, Values: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.WrapResource("query", "database", i.Database().Database, err)
		}
		for j, v := range values {
			// Text columns may come back as raw bytes.
			if b, ok := v.([]byte); ok {
				values[j] = string(b)
			}
		}
		result.Values = append(result.Values, values)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("query", "database", i.Database().Database, err)
	}
	return result, nil
}
