package search

import (
	"context"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
)

// DefaultMaxDepth is the number of depth bounds tried when the caller has
// no better estimate.
const DefaultMaxDepth = 1000

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the back-edge avoidance strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// WithInPlace makes PruneBackEdges mutate the caller's graph instead of a
// private clone. The pruning then outlives the call.
func WithInPlace() Option {
	return func(e *Engine) { e.inPlace = true }
}

// WithMaxVisits aborts a search after n visits across all attempts. Zero
// means no limit.
func WithMaxVisits(n int) Option {
	return func(e *Engine) { e.maxVisits = n }
}

// Engine runs iterative deepening searches. The zero value is not usable;
// create one with New.
type Engine struct {
	strategy  Strategy
	inPlace   bool
	maxVisits int
}

// New creates an engine. Without options it uses PruneBackEdges on a
// per-call clone of the graph.
func New(opts ...Option) *Engine {
	e := &Engine{strategy: PruneBackEdges}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the engine's back-edge avoidance strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Result is the outcome of one FindPath call.
type Result struct {
	Start string
	Goal  string

	// Path is the route found, nil when the search failed.
	Path Path

	// Bound is the depth bound of the successful attempt, or -1.
	Bound int

	// Trace records every visit of every attempt. It is empty when the
	// start or goal was unknown.
	Trace *Trace

	// UnknownNode names the start or goal missing from the graph; the start
	// is reported when both are.
	UnknownNode string
}

// Found reports whether a route was found.
func (r *Result) Found() bool { return r.Path != nil }

// FindPath searches g for a route from start to goal, trying depth bounds
// 0 through maxDepth-1 in order and stopping at the first that reaches goal.
//
// Errors:
//   - INVALID_INPUT if maxDepth < 1 or g is nil
//   - UNKNOWN_NODE if start or goal is not a node of g; nothing is explored
//   - DEPTH_EXHAUSTED if no bound reached goal; the returned Result still
//     carries the trace
//
// When the error is nil, Result.Path starts with start and ends with goal.
func (e *Engine) FindPath(start, goal string, maxDepth int, g *graph.Graph) (*Result, error) {
	return e.FindPathContext(context.Background(), start, goal, maxDepth, g)
}

// FindPathContext is FindPath with cancellation. It returns SEARCH_ABORTED,
// wrapping ctx.Err(), once ctx is done, and SEARCH_ABORTED when the engine's
// visit limit is reached. The partial trace is kept in the Result.
func (e *Engine) FindPathContext(ctx context.Context, start, goal string, maxDepth int, g *graph.Graph) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if err := errors.ValidateMaxDepth(maxDepth, 0); err != nil {
		return nil, err
	}

	res := &Result{Start: start, Goal: goal, Bound: -1, Trace: &Trace{}}
	if !g.Has(start) {
		res.UnknownNode = start
		return res, errors.New(errors.ErrCodeUnknownNode, "start node %q not in graph", start)
	}
	if !g.Has(goal) {
		res.UnknownNode = goal
		return res, errors.New(errors.ErrCodeUnknownNode, "goal node %q not in graph", goal)
	}

	work := g
	if e.strategy == PruneBackEdges && !e.inPlace {
		work = g.Clone()
	}
	s := &state{
		ctx:       ctx,
		goal:      goal,
		g:         work,
		strategy:  e.strategy,
		maxVisits: e.maxVisits,
		trace:     res.Trace,
	}

	for limit := 0; limit < maxDepth; limit++ {
		s.bound = limit
		found := s.explore(start, "", limit)
		if s.err != nil {
			return res, s.err
		}
		if found {
			s.path.add(start)
			res.Path = s.path.finish()
			res.Bound = limit
			return res, nil
		}
	}
	return res, errors.New(errors.ErrCodeDepthExhausted,
		"no route from %q to %q within max depth %d", start, goal, maxDepth)
}

// FindPath runs a search with a default Engine.
func FindPath(start, goal string, maxDepth int, g *graph.Graph) (*Result, error) {
	return New().FindPath(start, goal, maxDepth, g)
}
