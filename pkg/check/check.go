// Package check inspects the relationships of a single schema.
//
// It reports columns that look like foreign keys but are not declared as
// such, foreign keys that point at unknown tables or columns, and cycles in
// the graph of declared foreign keys.
package check

import (
	"fmt"
	"sort"

	"github.com/fvarrui/dbtools/pkg/schema"
)

// Relation is a declared foreign key.
type Relation struct {
	Table            string `json:"table" yaml:"table"`
	Column           string `json:"column" yaml:"column"`
	ReferencedTable  string `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumn string `json:"referenced_column" yaml:"referenced_column"`
}

// String returns table.column -> referenced_table.referenced_column.
func (r Relation) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", r.Table, r.Column, r.ReferencedTable, r.ReferencedColumn)
}

// Missing is a column named like the primary key of another table that
// has no foreign key declared on it.
type Missing struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
	Target string `json:"target" yaml:"target"`
}

// String returns table.column -> target.
func (m Missing) String() string {
	return fmt.Sprintf("%s.%s -> %s", m.Table, m.Column, m.Target)
}

// Report is the outcome of Run.
type Report struct {
	Schema    string     `json:"schema" yaml:"schema"`
	Tables    int        `json:"tables" yaml:"tables"`
	Relations []Relation `json:"relations" yaml:"relations"`
	Missing   []Missing  `json:"missing" yaml:"missing"`
	Dangling  []Relation `json:"dangling" yaml:"dangling"`
	Cycles    [][]string `json:"cycles" yaml:"cycles"`
}

// OK reports whether no problem was found.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Dangling) == 0 && len(r.Cycles) == 0
}

// Run performs every check on s.
func Run(s *schema.Schema) Report {
	return Report{
		Schema:    s.Name,
		Tables:    len(s.Tables),
		Relations: Relations(s),
		Missing:   MissingRelationships(s),
		Dangling:  Dangling(s),
		Cycles:    Cycles(s),
	}
}

// Relations lists the declared foreign keys in table order.
func Relations(s *schema.Schema) []Relation {
	relations := []Relation{}
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			relations = append(relations, Relation{
				Table:            t.Name,
				Column:           fk.Column,
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
			})
		}
	}
	return relations
}

// MissingRelationships finds columns that share their name with a primary
// key column of another table but carry no foreign key. Results follow
// table and column order, with targets sorted by name.
func MissingRelationships(s *schema.Schema) []Missing {
	targets := make([]schema.Table, len(s.Tables))
	copy(targets, s.Tables)
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })

	missing := []Missing{}
	for _, t := range s.Tables {
		for _, c := range t.Columns {
			if _, declared := t.ForeignKey(c.Name); declared {
				continue
			}
			for _, target := range targets {
				if target.Name == t.Name {
					continue
				}
				if target.IsPrimaryKey(c.Name) {
					missing = append(missing, Missing{Table: t.Name, Column: c.Name, Target: target.Name})
				}
			}
		}
	}
	return missing
}

// Dangling lists foreign keys whose referenced table or column does not
// exist in the schema.
func Dangling(s *schema.Schema) []Relation {
	dangling := []Relation{}
	for _, r := range Relations(s) {
		target, ok := s.Table(r.ReferencedTable)
		if !ok {
			dangling = append(dangling, r)
			continue
		}
		if r.ReferencedColumn != "" {
			if _, ok := target.Column(r.ReferencedColumn); !ok {
				dangling = append(dangling, r)
			}
		}
	}
	return dangling
}
