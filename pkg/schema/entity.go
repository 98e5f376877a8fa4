// Package schema models the database structures that dbtools reconciles.
//
// A Schema holds Tables (collection entities) which hold Columns (leaf
// entities). Identity is carried by Key: two entities are the same iff their
// keys are equal, regardless of type labels, comments or other metadata.
package schema

import (
	"cmp"
	"fmt"
)

// Kind tags an Entity as a collection (table) or a leaf (column).
type Kind int

const (
	// KindTable is a collection entity holding columns.
	KindTable Kind = iota
	// KindColumn is a leaf entity carrying a type label.
	KindColumn
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Key is the stable identity of an entity. Scope is the schema name for
// tables and the enclosing table name for columns.
type Key struct {
	Kind  Kind
	Scope string
	Name  string
}

// Compare orders keys by scope, then name, then kind.
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.Scope, other.Scope); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Name, other.Name); c != 0 {
		return c
	}
	return cmp.Compare(k.Kind, other.Kind)
}

// String returns the qualified name of the key.
func (k Key) String() string {
	if k.Scope == "" {
		return k.Name
	}
	return k.Scope + "." + k.Name
}

// Entity is implemented by Table and Column.
type Entity interface {
	Key() Key
	EntityName() string
	EntityKind() Kind
}

var (
	_ Entity = Table{}
	_ Entity = Column{}
)
