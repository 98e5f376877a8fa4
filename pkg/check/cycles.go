package check

import (
	"slices"
	"sort"

	"github.com/fvarrui/dbtools/pkg/schema"
)

// graph is the foreign key graph over sorted node indices.
type graph struct {
	nodes []string
	edges [][]int
}

func newGraph(s *schema.Schema) *graph {
	index := make(map[string]int)
	add := func(name string) {
		if _, ok := index[name]; !ok {
			index[name] = -1
		}
	}
	for _, t := range s.Tables {
		add(t.Name)
		for _, fk := range t.ForeignKeys {
			add(fk.ReferencedTable)
		}
	}

	g := &graph{}
	for name := range index {
		g.nodes = append(g.nodes, name)
	}
	sort.Strings(g.nodes)
	for i, name := range g.nodes {
		index[name] = i
	}

	g.edges = make([][]int, len(g.nodes))
	for _, t := range s.Tables {
		from := index[t.Name]
		for _, fk := range t.ForeignKeys {
			to := index[fk.ReferencedTable]
			if !slices.Contains(g.edges[from], to) {
				g.edges[from] = append(g.edges[from], to)
			}
		}
	}
	for i := range g.edges {
		slices.Sort(g.edges[i])
	}
	return g
}

// Cycles returns the elementary cycles of the foreign key graph. Each
// cycle starts at its lexicographically smallest table and the list is
// sorted, so the output is stable. Self references are cycles of one.
func Cycles(s *schema.Schema) [][]string {
	g := newGraph(s)
	cycles := [][]string{}

	// Enumerate cycles whose smallest node is start, visiting only nodes
	// greater than start so each cycle is found once.
	var path []int
	onPath := make([]bool, len(g.nodes))
	var walk func(start, node int)
	walk = func(start, node int) {
		for _, next := range g.edges[node] {
			switch {
			case next == start:
				cycle := make([]string, len(path))
				for i, n := range path {
					cycle[i] = g.nodes[n]
				}
				cycles = append(cycles, cycle)
			case next > start && !onPath[next]:
				path = append(path, next)
				onPath[next] = true
				walk(start, next)
				onPath[next] = false
				path = path[:len(path)-1]
			}
		}
	}

	for start := range g.nodes {
		path = append(path[:0], start)
		onPath[start] = true
		walk(start, start)
		onPath[start] = false
	}

	sort.Slice(cycles, func(i, j int) bool {
		return slices.Compare(cycles[i], cycles[j]) < 0
	})
	return cycles
}
