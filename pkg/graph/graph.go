package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [ReadJSON] when an edge references a node
	// that was not declared.
	ErrUnknownNode = errors.New("unknown node")
)

// Graph is an undirected graph stored as adjacency lists: every node maps to
// the ordered sequence of nodes directly connected to it. Neighbor order is
// insertion order and is significant - searches try neighbors in that order.
//
// A freshly built Graph is symmetric: [Graph.AddEdge] records a-b as both
// a→b and b→a. [Graph.RemoveNeighbor] deletes a single direction, so a graph
// that has been pruned by a search is generally no longer symmetric. Use
// [Graph.Clone] to keep a pristine copy.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	order []string            // node IDs in first-seen order
	adj   map[string][]string // nodeID -> neighbor IDs
	edges int                 // undirected edges added
}

// Edge is one undirected connection between two nodes.
type Edge struct {
	From string
	To   string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[string][]string)}
}

// AddNode adds an isolated node. Returns ErrInvalidNodeID if the ID is empty,
// or ErrDuplicateNodeID if the node already exists.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.adj[id]; exists {
		return ErrDuplicateNodeID
	}
	g.order = append(g.order, id)
	g.adj[id] = nil
	return nil
}

// AddEdge records an undirected edge between a and b, creating either node
// if it does not exist yet. b is appended to a's neighbors and a to b's.
// Parallel edges and self-loops are kept as given.
func (g *Graph) AddEdge(a, b string) error {
	if a == "" || b == "" {
		return ErrInvalidNodeID
	}
	g.ensure(a)
	g.ensure(b)
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	g.edges++
	return nil
}

func (g *Graph) ensure(id string) {
	if _, ok := g.adj[id]; !ok {
		g.order = append(g.order, id)
		g.adj[id] = nil
	}
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Neighbors returns the neighbors of id in stored order, or nil if the node
// has none or does not exist. The returned slice must be treated as
// read-only. It stays valid after [Graph.RemoveNeighbor], which never
// rewrites a slice previously handed out.
func (g *Graph) Neighbors(id string) []string { return g.adj[id] }

// Degree returns the number of entries in id's neighbor list.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// HasEdge reports whether b currently appears in a's neighbor list.
func (g *Graph) HasEdge(a, b string) bool {
	return slices.Contains(g.adj[a], b)
}

// RemoveNeighbor deletes the first occurrence of neighbor from node's list and
// reports whether anything was removed. Only the node→neighbor direction is
// affected.
//
// The list is rebuilt into a fresh backing array, so a caller ranging over an
// earlier result of Neighbors(node) keeps seeing the old contents.
func (g *Graph) RemoveNeighbor(node, neighbor string) bool {
	list := g.adj[node]
	i := slices.Index(list, neighbor)
	if i < 0 {
		return false
	}
	g.adj[node] = append(list[:i:i], list[i+1:]...)
	return true
}

// Nodes returns all node IDs in first-seen order.
// The returned slice is a copy and can be modified freely.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of undirected edges added with AddEdge.
// Pruning does not change it.
func (g *Graph) EdgeCount() int { return g.edges }

// Edges reconstructs the undirected edge list from the adjacency lists in
// node order. Each a-b pair is reported once for every a→b entry that has a
// matching b→a entry; entries without a partner (left behind by pruning) are
// reported as well, so nothing stored is lost.
func (g *Graph) Edges() []Edge {
	pending := make(map[Edge]int)
	var out []Edge
	for _, a := range g.order {
		for _, b := range g.adj[a] {
			back := Edge{From: b, To: a}
			if pending[back] > 0 {
				pending[back]--
				continue
			}
			e := Edge{From: a, To: b}
			pending[e]++
			out = append(out, e)
		}
	}
	return out
}

// IsSymmetric reports whether every a→b entry is matched by a b→a entry,
// counting multiplicity. Graphs built with AddEdge are symmetric until a
// pruning search runs on them.
func (g *Graph) IsSymmetric() bool {
	count := func(list []string, id string) int {
		n := 0
		for _, x := range list {
			if x == id {
				n++
			}
		}
		return n
	}
	for _, a := range g.order {
		for _, b := range g.adj[a] {
			if a == b {
				continue
			}
			if count(g.adj[a], b) != count(g.adj[b], a) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the graph. Mutating the copy never affects
// the original, which makes it the way to run several searches over the same
// input.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		order: slices.Clone(g.order),
		adj:   make(map[string][]string, len(g.adj)),
		edges: g.edges,
	}
	for id, list := range g.adj {
		c.adj[id] = slices.Clone(list)
	}
	return c
}
