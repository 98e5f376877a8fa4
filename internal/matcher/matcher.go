// Package matcher selects table names with glob or regular expression
// patterns. It backs the --include and --exclude flags.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Glob or Regex from the pattern itself.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher tests names against one compiled pattern.
type Matcher interface {
	Match(name string) bool
	Pattern() string
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseInsensitive folds case on both sides.
	CaseInsensitive bool
	// Anchored adds ^ and $ to regex patterns if not present.
	Anchored bool
}

type matcher struct {
	pattern     string
	patternType PatternType
	glob        string
	compiled    *regexp.Regexp
	fold        bool
}

// New compiles pattern. With Auto, a pattern wrapped in slashes or holding
// regex-only syntax is a regular expression and anything else is a glob.
func New(patternType PatternType, pattern string, opts ...Options) (Matcher, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	m := &matcher{pattern: pattern, patternType: patternType, fold: o.CaseInsensitive}
	expr := pattern
	if patternType == Auto {
		m.patternType, expr = detectPatternType(pattern)
	}

	switch m.patternType {
	case Glob:
		m.glob = expr
		if m.fold {
			m.glob = strings.ToLower(m.glob)
		}
		if _, err := path.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		if o.Anchored {
			if !strings.HasPrefix(expr, "^") {
				expr = "^" + expr
			}
			if !strings.HasSuffix(expr, "$") {
				expr += "$"
			}
		}
		if m.fold && !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}

	return m, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(patternType PatternType, pattern string, opts ...Options) Matcher {
	m, err := New(patternType, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *matcher) Match(name string) bool {
	if m.compiled != nil {
		return m.compiled.MatchString(name)
	}
	if m.fold {
		name = strings.ToLower(name)
	}
	ok, _ := path.Match(m.glob, name)
	return ok
}

func (m *matcher) Pattern() string { return m.pattern }

func (m *matcher) Type() PatternType { return m.patternType }

var regexIndicators = []string{
	"^", "$", `\d`, `\w`, `\s`, `\D`, `\W`, `\S`, `\b`,
	"(?", "{", "}", "+", "|", "(", ")",
}

// detectPatternType returns the type and the expression to compile.
func detectPatternType(pattern string) (PatternType, string) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		return Regex, pattern[1 : len(pattern)-1]
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex, pattern
		}
	}
	return Glob, pattern
}

// Set matches a name against several patterns.
type Set struct {
	matchers []Matcher
}

// NewSet compiles every pattern. An empty set matches nothing.
func NewSet(patterns []string, patternType PatternType, opts ...Options) (*Set, error) {
	s := &Set{matchers: make([]Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := New(patternType, p, opts...)
		if err != nil {
			return nil, err
		}
		s.matchers = append(s.matchers, m)
	}
	return s, nil
}

// Len returns the number of patterns.
func (s *Set) Len() int { return len(s.matchers) }

// Match reports whether any pattern matches name.
func (s *Set) Match(name string) bool {
	for _, m := range s.matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// Filter returns the names matching any pattern, in input order.
func (s *Set) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
