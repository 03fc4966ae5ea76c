// Package pipeline runs route searches with caching and instrumentation.
//
// The CLI and the HTTP server both go through a [Runner], so a query gives
// the same outcome, the same cache keys and the same metrics whichever
// entry point served it.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	g, err := pipeline.LoadGraph(ctx, "romania.txt")
//	out, cached, err := runner.Run(ctx, g, pipeline.Query{
//	    Start: "Arad",
//	    Goal:  "Bucharest",
//	})
//
// Run returns the search error (UNKNOWN_NODE, DEPTH_EXHAUSTED) together with
// a non-nil [Outcome] so callers can still show the trace. Only invalid
// queries and backend failures yield a nil outcome.
//
// Several queries over one graph run concurrently with [Runner.RunBatch].
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/waypoint/pkg/cache"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/search"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxDepth matches search.DefaultMaxDepth.
	DefaultMaxDepth = search.DefaultMaxDepth

	// DefaultStrategy is the strategy name used when a query names none.
	DefaultStrategy = search.StrategyNamePrune

	// DefaultConcurrency bounds RunBatch when the caller passes zero.
	DefaultConcurrency = 4
)

// =============================================================================
// Query
// =============================================================================

// Query describes one search. It decodes from JSON request bodies and from
// TOML batch files.
type Query struct {
	Start    string `json:"start" toml:"start"`
	Goal     string `json:"goal" toml:"goal"`
	MaxDepth int    `json:"max_depth,omitempty" toml:"max_depth"`
	Strategy string `json:"strategy,omitempty" toml:"strategy"`

	// Refresh skips the cache lookup; the fresh outcome is still stored.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`
}

// ValidateAndSetDefaults checks node names, fills in the default max depth
// and strategy, and normalizes the strategy name. maxDepthLimit caps
// MaxDepth when positive.
func (q *Query) ValidateAndSetDefaults(maxDepthLimit int) error {
	if err := errors.ValidateNodeName(q.Start); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "start: %s", errors.UserMessage(err))
	}
	if err := errors.ValidateNodeName(q.Goal); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "goal: %s", errors.UserMessage(err))
	}
	if q.MaxDepth == 0 {
		q.MaxDepth = DefaultMaxDepth
		if maxDepthLimit > 0 && maxDepthLimit < q.MaxDepth {
			q.MaxDepth = maxDepthLimit
		}
	}
	if err := errors.ValidateMaxDepth(q.MaxDepth, maxDepthLimit); err != nil {
		return err
	}
	s, err := search.ParseStrategy(q.Strategy)
	if err != nil {
		return err
	}
	q.Strategy = s.String()
	return nil
}

// engine builds the search engine for a validated query.
func (q Query) engine(maxVisits int) *search.Engine {
	s, _ := search.ParseStrategy(q.Strategy)
	return search.New(search.WithStrategy(s), search.WithMaxVisits(maxVisits))
}

func (q Query) keyOpts() cache.SearchKeyOpts {
	return cache.SearchKeyOpts{
		Start:    q.Start,
		Goal:     q.Goal,
		MaxDepth: q.MaxDepth,
		Strategy: strings.ToLower(q.Strategy),
	}
}

// =============================================================================
// Outcome
// =============================================================================

// Outcome is the serializable result of a search, as cached and as returned
// by the HTTP API.
type Outcome struct {
	Start    string              `json:"start"`
	Goal     string              `json:"goal"`
	MaxDepth int                 `json:"max_depth"`
	Strategy string              `json:"strategy"`
	Found    bool                `json:"found"`
	Path     search.Path         `json:"path"`
	Bound    int                 `json:"bound"`
	Trace    []search.TraceEntry `json:"trace"`

	// Code and Message describe why no route was returned.
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`

	// UnknownNode is the start or goal missing from the graph.
	UnknownNode string `json:"unknown_node,omitempty"`

	// Elapsed is the search time of the run that produced the outcome.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Err rebuilds the search error recorded in the outcome, nil on success.
func (o *Outcome) Err() error {
	if o.Code == "" {
		return nil
	}
	return errors.New(o.Code, "%s", o.Message)
}

// StartUnknown reports whether the search failed because the start node is
// not in the graph.
func (o *Outcome) StartUnknown() bool {
	return o.Code == errors.ErrCodeUnknownNode && o.UnknownNode == o.Start
}

// TraceLog returns the recorded trace as a search.Trace.
func (o *Outcome) TraceLog() *search.Trace {
	return search.NewTrace(o.Trace)
}

func newOutcome(q Query, res *search.Result, err error, elapsed time.Duration) *Outcome {
	out := &Outcome{
		Start:    q.Start,
		Goal:     q.Goal,
		MaxDepth: q.MaxDepth,
		Strategy: q.Strategy,
		Bound:    -1,
		Elapsed:  elapsed,
	}
	if res != nil {
		out.Found = res.Found()
		out.Path = res.Path
		out.Bound = res.Bound
		out.Trace = res.Trace.Entries()
		out.UnknownNode = res.UnknownNode
	}
	if err != nil {
		out.Code = errors.GetCode(err)
		out.Message = errors.UserMessage(err)
	}
	return out
}
