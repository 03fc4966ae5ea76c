package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waypoint/pkg/cache"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
	"github.com/matzehuels/waypoint/pkg/observability"
	"github.com/matzehuels/waypoint/pkg/render"
	"github.com/matzehuels/waypoint/pkg/render/nodelink"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeSearch = "search"
	keyTypeRender = "render"
)

// Runner executes searches and renders with caching. It holds no per-query
// state; one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxDepthLimit caps Query.MaxDepth when positive.
	MaxDepthLimit int

	// MaxVisits aborts a search after that many visits when positive.
	MaxVisits int

	// SearchTTL is the lifetime of cached outcomes; zero selects
	// cache.TTLSearch.
	SearchTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default one and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// GraphHash returns the content hash used in cache keys.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := graph.Marshal(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Run searches g for q. The bool reports whether the outcome came from the
// cache.
//
// The returned error is the search error (UNKNOWN_NODE, DEPTH_EXHAUSTED)
// with a non-nil outcome, or an INVALID_INPUT, SEARCH_ABORTED or context
// error with a nil one. The search stops once ctx is done.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, q Query) (*Outcome, bool, error) {
	if g == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	return r.run(ctx, g, hash, q)
}

func (r *Runner) run(ctx context.Context, g *graph.Graph, graphHash string, q Query) (*Outcome, bool, error) {
	if err := q.ValidateAndSetDefaults(r.MaxDepthLimit); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.SearchKey(graphHash, q.keyOpts())
	if !q.Refresh {
		if out, ok := r.cachedOutcome(ctx, key); ok {
			r.Logger.Debug("search cache hit", "start", q.Start, "goal", q.Goal)
			return out, true, out.Err()
		}
	}

	hooks := observability.Search()
	hooks.OnSearchStart(ctx, q.Strategy, q.MaxDepth)
	began := time.Now()
	res, err := q.engine(r.MaxVisits).FindPathContext(ctx, q.Start, q.Goal, q.MaxDepth, g)
	elapsed := time.Since(began)

	ev := observability.SearchEvent{Strategy: q.Strategy, Bound: -1, Duration: elapsed, Err: err}
	if res != nil {
		ev.Found = res.Found()
		ev.Bound = res.Bound
		ev.Visits = res.Trace.Len()
	}
	hooks.OnSearchComplete(ctx, ev)

	if res == nil {
		return nil, false, err
	}
	if errors.Is(err, errors.ErrCodeSearchAborted) {
		r.Logger.Warn("search aborted",
			"start", q.Start,
			"goal", q.Goal,
			"strategy", q.Strategy,
			"visits", res.Trace.Len(),
			"error", err)
		return nil, false, err
	}
	out := newOutcome(q, res, err, elapsed)

	r.Logger.Debug("search finished",
		"start", q.Start,
		"goal", q.Goal,
		"strategy", q.Strategy,
		"found", out.Found,
		"bound", out.Bound,
		"visits", len(out.Trace),
		"duration", elapsed)

	if err == nil || errors.Is(err, errors.ErrCodeDepthExhausted) {
		ttl := r.SearchTTL
		if ttl == 0 {
			ttl = cache.TTLSearch
		}
		r.store(ctx, keyTypeSearch, key, out, ttl)
	}
	return out, false, err
}

func (r *Runner) cachedOutcome(ctx context.Context, key string) (*Outcome, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeSearch)
		return nil, false
	}
	var out Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeSearch)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeSearch)
	return &out, true
}

// store writes v to the cache. Failures are logged, never returned: a
// broken cache must not fail a search.
func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	var data []byte
	switch b := v.(type) {
	case []byte:
		data = b
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			r.Logger.Warn("encode cache entry", "error", err)
			return
		}
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Render draws g in format, highlighting out's path and trace when out is
// non-nil. The bool reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, out *Outcome, format string) ([]byte, bool, error) {
	if err := render.ValidateFormat(format); err != nil {
		return nil, false, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}

	opts := nodelink.Options{}
	if out != nil {
		opts.Path = out.Path
		for _, e := range out.Trace {
			opts.Visited = append(opts.Visited, e.Node)
		}
		if out.Found {
			opts.Title = out.Path.String()
		}
	}

	key := r.Keyer.RenderKey(hash, cache.RenderKeyOpts{Format: format, Path: opts.Path, Visited: opts.Visited})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeRender)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeRender)

	data, err := render.Graph(ctx, g, opts, format)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, keyTypeRender, key, data, cache.TTLRender)
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
