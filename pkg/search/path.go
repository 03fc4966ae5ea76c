package search

import "strings"

// Path is a route from start to goal, both included. Consecutive nodes are
// adjacent in the graph the search was given.
type Path []string

// Hops returns the number of edges on the path.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// String renders the path as "A -> B -> C".
func (p Path) String() string {
	return strings.Join(p, " -> ")
}

// pathBuilder collects a route while the successful recursion unwinds. Nodes
// arrive goal-first; finish reverses them.
type pathBuilder struct {
	nodes []string
}

func (b *pathBuilder) add(node string) {
	b.nodes = append(b.nodes, node)
}

func (b *pathBuilder) finish() Path {
	p := make(Path, len(b.nodes))
	for i, n := range b.nodes {
		p[len(b.nodes)-1-i] = n
	}
	return p
}
