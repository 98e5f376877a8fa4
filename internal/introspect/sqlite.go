package introspect

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/fvarrui/dbtools/pkg/schema"
)

type sqliteDialect struct{}

func (sqliteDialect) listRelations(ctx context.Context, db *sql.DB, views bool) ([]string, error) {
	kind := "table"
	if views {
		kind = "view"
	}
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = ? AND name NOT LIKE 'sqlite_%' ORDER BY name`, kind)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (sqliteDialect) table(ctx context.Context, db *sql.DB, name string) (schema.Table, error) {
	t := schema.Table{Name: name}

	// PRAGMA arguments cannot be bound, so the name is quoted instead.
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(name)+")")
	if err != nil {
		return t, err
	}
	type pkColumn struct {
		name string
		pos  int
	}
	var pks []pkColumn
	for rows.Next() {
		var (
			cid, notNull, pk int
			colName, colType string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			_ = rows.Close()
			return t, err
		}
		t.Columns = append(t.Columns, schema.Column{
			Name:     colName,
			Type:     colType,
			Nullable: notNull == 0 && pk == 0,
		})
		if pk > 0 {
			pks = append(pks, pkColumn{colName, pk})
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return t, err
	}
	_ = rows.Close()

	sort.Slice(pks, func(i, j int) bool { return pks[i].pos < pks[j].pos })
	for _, pk := range pks {
		t.PrimaryKeys = append(t.PrimaryKeys, pk.name)
	}

	fks, err := db.QueryContext(ctx, "PRAGMA foreign_key_list("+quoteIdent(name)+")")
	if err != nil {
		return t, err
	}
	defer func() { _ = fks.Close() }()
	for fks.Next() {
		var (
			id, seq                   int
			refTable, from            string
			to                        sql.NullString
			onUpdate, onDelete, match string
		)
		if err := fks.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return t, err
		}
		t.ForeignKeys = append(t.ForeignKeys, schema.ForeignKey{
			Column:           from,
			ReferencedTable:  refTable,
			ReferencedColumn: to.String,
		})
	}
	if err := fks.Err(); err != nil {
		return t, err
	}
	// PRAGMA lists foreign keys newest first.
	sort.SliceStable(t.ForeignKeys, func(i, j int) bool {
		return t.ForeignKeys[i].Column < t.ForeignKeys[j].Column
	})
	return t, nil
}

// quoteIdent quotes an SQL identifier with double quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
