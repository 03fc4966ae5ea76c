package prom

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/observability"
)

func TestSearchMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnSearchStart(ctx, "prune", 5)
	if got := testutil.ToFloat64(h.SearchesInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	h.OnSearchComplete(ctx, observability.SearchEvent{Strategy: "prune", Found: true, Bound: 3, Visits: 12})
	h.OnSearchStart(ctx, "prune", 2)
	h.OnSearchComplete(ctx, observability.SearchEvent{
		Strategy: "prune",
		Bound:    -1,
		Err:      errors.New(errors.ErrCodeDepthExhausted, "no route"),
	})

	if got := testutil.ToFloat64(h.SearchesInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.SearchesTotal.WithLabelValues("prune", "found")); got != 1 {
		t.Errorf("found = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.SearchesTotal.WithLabelValues("prune", "depth_exhausted")); got != 1 {
		t.Errorf("depth_exhausted = %v, want 1", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		ev   observability.SearchEvent
		want string
	}{
		{observability.SearchEvent{Found: true}, "found"},
		{observability.SearchEvent{}, "not_found"},
		{observability.SearchEvent{Err: errors.New(errors.ErrCodeUnknownNode, "x")}, "unknown_node"},
		{observability.SearchEvent{Err: errors.New(errors.ErrCodeSearchAborted, "x")}, "aborted"},
		{observability.SearchEvent{Err: errors.New(errors.ErrCodeInvalidInput, "x")}, "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.ev); got != tt.want {
			t.Errorf("outcome(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestCacheAndHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnCacheMiss(ctx, "search")
	h.OnCacheSet(ctx, "search", 100)
	h.OnCacheHit(ctx, "search")
	h.OnCacheHit(ctx, "search")

	if got := testutil.ToFloat64(h.CacheOps.WithLabelValues("search", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.CacheBytes.WithLabelValues("search")); got != 100 {
		t.Errorf("bytes = %v, want 100", got)
	}

	h.OnResponse(ctx, "POST", "/v1/search", 404, time.Millisecond)
	if got := testutil.ToFloat64(h.RequestsTotal.WithLabelValues("POST", "/v1/search", "404")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestGraphLoadMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnGraphLoaded(ctx, "map.txt", 20, 23, time.Millisecond, nil)
	h.OnGraphLoaded(ctx, "bad.txt", 0, 0, time.Millisecond, errors.New(errors.ErrCodeMalformedInput, "x"))

	if got := testutil.ToFloat64(h.GraphNodes); got != 20 {
		t.Errorf("nodes = %v, want 20", got)
	}
	if got := testutil.ToFloat64(h.GraphLoads.WithLabelValues("error")); got != 1 {
		t.Errorf("load errors = %v, want 1", got)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	h := New(prometheus.NewRegistry())
	h.Register()

	if observability.Search() != observability.SearchHooks(h) {
		t.Error("Register should install search hooks")
	}
	if observability.HTTP() != observability.HTTPHooks(h) {
		t.Error("Register should install HTTP hooks")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	New(reg)
}
