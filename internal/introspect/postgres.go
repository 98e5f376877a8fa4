package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fvarrui/dbtools/pkg/schema"
)

// postgresDialect reads the schema selected by the connection search path.
type postgresDialect struct{}

func (postgresDialect) listRelations(ctx context.Context, db *sql.DB, views bool) ([]string, error) {
	tableType := "BASE TABLE"
	if views {
		tableType = "VIEW"
	}
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = $1
		ORDER BY table_name
	`
	rows, err := db.QueryContext(ctx, query, tableType)
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

func (postgresDialect) table(ctx context.Context, db *sql.DB, name string) (schema.Table, error) {
	t := schema.Table{Name: name}

	commentQuery := `
		SELECT COALESCE(obj_description(format('%I.%I', current_schema(), $1::text)::regclass, 'pg_class'), '')
	`
	if err := db.QueryRowContext(ctx, commentQuery, name).Scan(&t.Comment); err != nil {
		return t, fmt.Errorf("failed to read comment: %w", err)
	}

	columnsQuery := `
		SELECT
			column_name,
			data_type,
			COALESCE(character_maximum_length, 0),
			is_nullable,
			COALESCE(col_description(format('%I.%I', table_schema, table_name)::regclass, ordinal_position), '')
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`
	rows, err := db.QueryContext(ctx, columnsQuery, name)
	if err != nil {
		return t, fmt.Errorf("failed to read columns: %w", err)
	}
	for rows.Next() {
		var (
			c          schema.Column
			length     int
			isNullable string
		)
		if err := rows.Scan(&c.Name, &c.Type, &length, &isNullable, &c.Comment); err != nil {
			_ = rows.Close()
			return t, err
		}
		if length > 0 {
			c.Type = fmt.Sprintf("%s(%d)", c.Type, length)
		}
		c.Nullable = isNullable == "YES"
		t.Columns = append(t.Columns, c)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return t, err
	}
	_ = rows.Close()

	pkQuery := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = current_schema()
			AND tc.table_name = $1
		ORDER BY kcu.ordinal_position
	`
	pkRows, err := db.QueryContext(ctx, pkQuery, name)
	if err != nil {
		return t, fmt.Errorf("failed to read primary key: %w", err)
	}
	for pkRows.Next() {
		var column string
		if err := pkRows.Scan(&column); err != nil {
			_ = pkRows.Close()
			return t, err
		}
		t.PrimaryKeys = append(t.PrimaryKeys, column)
	}
	if err := pkRows.Err(); err != nil {
		_ = pkRows.Close()
		return t, err
	}
	_ = pkRows.Close()

	fkQuery := `
		SELECT kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.constraint_schema = tc.constraint_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = current_schema()
			AND tc.table_name = $1
		ORDER BY kcu.column_name
	`
	fkRows, err := db.QueryContext(ctx, fkQuery, name)
	if err != nil {
		return t, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	defer func() { _ = fkRows.Close() }()
	for fkRows.Next() {
		var fk schema.ForeignKey
		if err := fkRows.Scan(&fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return t, err
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	return t, fkRows.Err()
}
