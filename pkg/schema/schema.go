package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fvarrui/dbtools/pkg/errors"
)

// Column is a leaf entity.
type Column struct {
	// Table is the name of the enclosing table. It is stamped by New.
	Table      string `json:"-" yaml:"-"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Nullable   bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
}

// Key returns the identity of the column.
func (c Column) Key() Key {
	return Key{Kind: KindColumn, Scope: c.Table, Name: c.Name}
}

// EntityName returns the column name.
func (c Column) EntityName() string { return c.Name }

// EntityKind returns KindColumn.
func (c Column) EntityKind() Kind { return KindColumn }

// String renders the column as name[type], the form used for scoring.
func (c Column) String() string {
	return fmt.Sprintf("%s[%s]", c.Name, c.Type)
}

// ForeignKey links a local column to a column of another table.
type ForeignKey struct {
	Column           string `json:"column" yaml:"column"`
	ReferencedTable  string `json:"references" yaml:"references"`
	ReferencedColumn string `json:"referenced_column" yaml:"referenced_column"`
}

// Table is a collection entity.
type Table struct {
	// Schema is the name of the enclosing schema. It is stamped by New.
	Schema      string       `json:"-" yaml:"-"`
	Name        string       `json:"name" yaml:"name"`
	Comment     string       `json:"comment,omitempty" yaml:"comment,omitempty"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	PrimaryKeys []string     `json:"primary_keys,omitempty" yaml:"primary_keys,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

// Key returns the identity of the table.
func (t Table) Key() Key {
	return Key{Kind: KindTable, Scope: t.Schema, Name: t.Name}
}

// EntityName returns the table name.
func (t Table) EntityName() string { return t.Name }

// EntityKind returns KindTable.
func (t Table) EntityKind() Kind { return KindTable }

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// IsPrimaryKey reports whether the named column is part of the primary key.
func (t Table) IsPrimaryKey(column string) bool {
	if slices.Contains(t.PrimaryKeys, column) {
		return true
	}
	c, ok := t.Column(column)
	return ok && c.PrimaryKey
}

// ForeignKey returns the foreign key defined on the named column.
func (t Table) ForeignKey(column string) (ForeignKey, bool) {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

// Database describes where a schema was read from.
type Database struct {
	Server   string `json:"server,omitempty" yaml:"server,omitempty"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// Schema is a named set of tables.
type Schema struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Database *Database `json:"database,omitempty" yaml:"database,omitempty"`
	Tables   []Table   `json:"tables" yaml:"tables"`
}

// New builds a validated schema. The scope of every table and column is
// stamped from the schema and table names, and primary key flags on columns
// are reconciled with the table level primary key list.
func New(name string, tables ...Table) (*Schema, error) {
	s := &Schema{Name: name, Tables: tables}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(name string, tables ...Table) *Schema {
	s, err := New(name, tables...)
	if err != nil {
		panic(err)
	}
	return s
}

// normalize validates the schema and stamps scopes in place.
func (s *Schema) normalize() error {
	seen := make(map[string]struct{}, len(s.Tables))
	for i := range s.Tables {
		t := &s.Tables[i]
		if strings.TrimSpace(t.Name) == "" {
			return errors.NewValidationError("tables", i, "table name is required")
		}
		if _, dup := seen[t.Name]; dup {
			return errors.NewAlreadyExistsError("table", t.Name)
		}
		seen[t.Name] = struct{}{}
		t.Schema = s.Name

		columns := make(map[string]struct{}, len(t.Columns))
		for j := range t.Columns {
			c := &t.Columns[j]
			if strings.TrimSpace(c.Name) == "" {
				return errors.NewValidationError("columns", t.Name, fmt.Sprintf("column %d of table %s has no name", j, t.Name))
			}
			if _, dup := columns[c.Name]; dup {
				return errors.NewAlreadyExistsError("column", t.Name+"."+c.Name)
			}
			columns[c.Name] = struct{}{}
			c.Table = t.Name
			if c.PrimaryKey && !slices.Contains(t.PrimaryKeys, c.Name) {
				t.PrimaryKeys = append(t.PrimaryKeys, c.Name)
			}
		}
		for _, pk := range t.PrimaryKeys {
			if _, ok := columns[pk]; !ok {
				return errors.NewValidationError("primary_keys", pk, fmt.Sprintf("table %s has no column %s", t.Name, pk))
			}
		}
		for j := range t.Columns {
			if slices.Contains(t.PrimaryKeys, t.Columns[j].Name) {
				t.Columns[j].PrimaryKey = true
			}
		}
		for _, fk := range t.ForeignKeys {
			if _, ok := columns[fk.Column]; !ok {
				return errors.NewValidationError("foreign_keys", fk.Column, fmt.Sprintf("table %s has no column %s", t.Name, fk.Column))
			}
		}
	}
	return nil
}

// Table returns the named table.
func (s *Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns the table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// ColumnCount returns the total number of columns across all tables.
func (s *Schema) ColumnCount() int {
	n := 0
	for _, t := range s.Tables {
		n += len(t.Columns)
	}
	return n
}
