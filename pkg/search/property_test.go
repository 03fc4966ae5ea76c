package search

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
)

const propertyRuns = 60

func nodeName(i int) string { return fmt.Sprintf("n%d", i) }

// randomGraph builds a graph on n nodes with roughly m random edges. Some
// nodes may stay isolated.
func randomGraph(t *testing.T, r *rand.Rand, n, m int) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(nodeName(i)))
	}
	for i := 0; i < m; i++ {
		a, b := r.Intn(n), r.Intn(n)
		if a == b || g.HasEdge(nodeName(a), nodeName(b)) {
			continue
		}
		require.NoError(t, g.AddEdge(nodeName(a), nodeName(b)))
	}
	return g
}

// randomTree builds a random tree on n nodes.
func randomTree(t *testing.T, r *rand.Rand, n int) *graph.Graph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddNode(nodeName(0)))
	for i := 1; i < n; i++ {
		require.NoError(t, g.AddEdge(nodeName(r.Intn(i)), nodeName(i)))
	}
	return g
}

// distance returns the BFS hop count from start to goal, or -1.
func distance(g *graph.Graph, start, goal string) int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == goal {
			return dist[u]
		}
		for _, v := range g.Neighbors(u) {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return -1
}

func checkRoute(t *testing.T, g *graph.Graph, res *Result, start, goal string) {
	t.Helper()
	require.NotEmpty(t, res.Path)
	assert.Equal(t, start, res.Path[0])
	assert.Equal(t, goal, res.Path[len(res.Path)-1])
	assert.Equal(t, res.Bound, res.Path.Hops())
	assertEdgesExist(t, g, res.Path)
}

func checkTrace(t *testing.T, res *Result, start string) {
	t.Helper()
	prevBound := -1
	for _, e := range res.Trace.Entries() {
		if e.Bound != prevBound {
			assert.Equal(t, start, e.Node, "every attempt begins at the start")
			assert.Equal(t, 0, e.Depth)
			assert.Greater(t, e.Bound, prevBound, "bounds only increase")
			prevBound = e.Bound
		}
		assert.LessOrEqual(t, e.Depth, e.Bound)
	}
}

func TestProperty_ExcludeParentFindsShortest(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	eng := New(WithStrategy(ExcludeParent))

	for run := 0; run < propertyRuns; run++ {
		g := randomGraph(t, r, 8, 12)
		start, goal := nodeName(r.Intn(8)), nodeName(r.Intn(8))
		maxDepth := 1 + r.Intn(8)
		want := distance(g, start, goal)

		res, err := eng.FindPath(start, goal, maxDepth, g)
		if want >= 0 && want < maxDepth {
			require.NoError(t, err, "run %d: %s->%s", run, start, goal)
			checkRoute(t, g, res, start, goal)
			assert.Equal(t, want, res.Path.Hops(), "run %d", run)
		} else {
			assert.True(t, errors.Is(err, errors.ErrCodeDepthExhausted), "run %d", run)
			assert.Nil(t, res.Path)
		}
		checkTrace(t, res, start)
	}
}

func TestProperty_PruneOnTrees(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for run := 0; run < propertyRuns; run++ {
		g := randomTree(t, r, 12)
		start, goal := nodeName(r.Intn(12)), nodeName(r.Intn(12))
		maxDepth := 1 + r.Intn(12)
		want := distance(g, start, goal)

		res, err := FindPath(start, goal, maxDepth, g)
		if want < maxDepth {
			require.NoError(t, err, "run %d: %s->%s", run, start, goal)
			checkRoute(t, g, res, start, goal)
			assert.Equal(t, want, res.Path.Hops(), "run %d", run)
		} else {
			assert.True(t, errors.Is(err, errors.ErrCodeDepthExhausted), "run %d", run)
		}
		checkTrace(t, res, start)
	}
}

func TestProperty_PruneRoutesAreValid(t *testing.T) {
	r := rand.New(rand.NewSource(23))

	for run := 0; run < propertyRuns; run++ {
		g := randomGraph(t, r, 10, 18)
		start, goal := nodeName(r.Intn(10)), nodeName(r.Intn(10))
		want := distance(g, start, goal)

		res, err := FindPath(start, goal, 12, g)
		switch {
		case err == nil:
			checkRoute(t, g, res, start, goal)
			assert.GreaterOrEqual(t, res.Path.Hops(), want)
		default:
			// Unreachable, or hidden by earlier pruning.
			assert.True(t, errors.Is(err, errors.ErrCodeDepthExhausted), "run %d", run)
		}
		checkTrace(t, res, start)
		assert.True(t, g.IsSymmetric(), "caller graph untouched")
	}
}

func TestProperty_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(31))

	for run := 0; run < propertyRuns/2; run++ {
		g := randomGraph(t, r, 9, 14)
		start, goal := nodeName(r.Intn(9)), nodeName(r.Intn(9))

		for name, eng := range bothStrategies() {
			a, errA := eng.FindPath(start, goal, 7, g)
			b, errB := eng.FindPath(start, goal, 7, g)
			assert.Equal(t, errA == nil, errB == nil, "%s run %d", name, run)
			assert.Equal(t, a.Path, b.Path, "%s run %d", name, run)
			assert.Equal(t, a.Trace.Entries(), b.Trace.Entries(), "%s run %d", name, run)
		}
	}
}
