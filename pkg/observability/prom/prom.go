// Package prom implements the observability hooks with Prometheus
// collectors.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/observability"
)

const namespace = "waypoint"

// Hooks records search, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	GraphLoads       *prometheus.CounterVec
	GraphNodes       prometheus.Gauge
	SearchesTotal    *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
	SearchVisits     prometheus.Histogram
	SearchesInFlight prometheus.Gauge
	CacheOps         *prometheus.CounterVec
	CacheBytes       *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. It panics if a
// collector is already registered, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		GraphLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_loads_total",
			Help:      "Graphs loaded, by result",
		}, []string{"result"}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Node count of the most recently loaded graph",
		}),
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Completed searches by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		SearchVisits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_visits",
			Help:      "Nodes entered per search, across all attempts",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		SearchesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "searches_in_flight",
			Help:      "Searches currently running",
		}),
		CacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations by key type and result",
		}, []string{"key_type", "op"}),
		CacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		h.GraphLoads, h.GraphNodes,
		h.SearchesTotal, h.SearchDuration, h.SearchVisits, h.SearchesInFlight,
		h.CacheOps, h.CacheBytes,
		h.RequestsTotal, h.RequestDuration,
	)
	return h
}

// Register installs h as the global search, cache and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *Hooks) OnGraphLoaded(_ context.Context, _ string, nodes, _ int, _ time.Duration, err error) {
	if err != nil {
		h.GraphLoads.WithLabelValues("error").Inc()
		return
	}
	h.GraphLoads.WithLabelValues("ok").Inc()
	h.GraphNodes.Set(float64(nodes))
}

func (h *Hooks) OnSearchStart(context.Context, string, int) {
	h.SearchesInFlight.Inc()
}

func (h *Hooks) OnSearchComplete(_ context.Context, ev observability.SearchEvent) {
	h.SearchesInFlight.Dec()
	h.SearchesTotal.WithLabelValues(ev.Strategy, outcome(ev)).Inc()
	h.SearchDuration.WithLabelValues(ev.Strategy).Observe(ev.Duration.Seconds())
	h.SearchVisits.Observe(float64(ev.Visits))
}

// outcome maps a search event to a low-cardinality label.
func outcome(ev observability.SearchEvent) string {
	switch {
	case ev.Found:
		return "found"
	case ev.Err == nil:
		return "not_found"
	case errors.Is(ev.Err, errors.ErrCodeDepthExhausted):
		return "depth_exhausted"
	case errors.Is(ev.Err, errors.ErrCodeUnknownNode):
		return "unknown_node"
	case errors.Is(ev.Err, errors.ErrCodeSearchAborted):
		return "aborted"
	}
	return "error"
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheOps.WithLabelValues(keyType, "set").Inc()
	h.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	h.RequestsTotal.WithLabelValues(method, route, status).Inc()
	h.RequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

var (
	_ observability.SearchHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.HTTPHooks   = (*Hooks)(nil)
)
