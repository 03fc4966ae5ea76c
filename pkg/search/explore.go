package search

import (
	"context"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
)

// ctxCheckInterval is how many visits pass between context checks.
const ctxCheckInterval = 1024

// state is everything one FindPath call threads through the explorer.
type state struct {
	ctx       context.Context
	goal      string
	bound     int // depth bound of the current attempt
	g         *graph.Graph
	strategy  Strategy
	maxVisits int
	visits    int
	trace     *Trace
	path      pathBuilder

	// err stops the explorer; set on cancellation or visit limit.
	err error
}

// explore runs one depth-limited search from node with limit edge traversals
// left. parent is the node explore was entered from, "" at the root.
// On success the nodes below the root are added to the path, goal first.
func (s *state) explore(node, parent string, limit int) bool {
	if !s.admit() {
		return false
	}
	s.trace.record(s.bound, s.bound-limit, node)

	if node == s.goal {
		return true
	}
	if limit < 1 {
		return false
	}

	for _, n := range s.g.Neighbors(node) {
		switch s.strategy {
		case PruneBackEdges:
			s.g.RemoveNeighbor(n, node)
		case ExcludeParent:
			if n == parent {
				continue
			}
		}
		if s.explore(n, node, limit-1) {
			s.path.add(n)
			return true
		}
		if s.err != nil {
			return false
		}
	}
	return false
}

// admit counts one visit and reports whether the search may continue.
func (s *state) admit() bool {
	if s.err != nil {
		return false
	}
	s.visits++
	if s.maxVisits > 0 && s.visits > s.maxVisits {
		s.err = errors.New(errors.ErrCodeSearchAborted, "visit limit %d reached", s.maxVisits)
		return false
	}
	if s.visits%ctxCheckInterval == 1 {
		if err := s.ctx.Err(); err != nil {
			s.err = errors.Wrap(errors.ErrCodeSearchAborted, err, "search canceled after %d visits", s.visits-1)
			return false
		}
	}
	return true
}
