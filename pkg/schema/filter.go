package schema

import (
	"strings"

	"github.com/fvarrui/dbtools/internal/matcher"
)

// Filter returns a copy of the schema holding only the tables whose names
// match at least one include pattern (all tables when include is empty)
// and no exclude pattern. Patterns are globs unless they look like regular
// expressions.
func (s *Schema) Filter(include, exclude []string) (*Schema, error) {
	inc, err := matcher.NewSet(include, matcher.Auto)
	if err != nil {
		return nil, err
	}
	exc, err := matcher.NewSet(exclude, matcher.Auto)
	if err != nil {
		return nil, err
	}

	out := &Schema{Name: s.Name, Database: s.Database}
	for _, t := range s.Tables {
		if len(include) > 0 && !inc.Match(t.Name) {
			continue
		}
		if exc.Match(t.Name) {
			continue
		}
		out.Tables = append(out.Tables, t)
	}
	return out, nil
}

// Prefixed returns a copy holding only tables whose names start with prefix.
func (s *Schema) Prefixed(prefix string) *Schema {
	if prefix == "" {
		return s
	}
	out := &Schema{Name: s.Name, Database: s.Database}
	for _, t := range s.Tables {
		if strings.HasPrefix(t.Name, prefix) {
			out.Tables = append(out.Tables, t)
		}
	}
	return out
}
