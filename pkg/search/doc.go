// Package search finds routes in an undirected [graph.Graph] with iterative
// deepening depth-first search (IDDFS).
//
// # Overview
//
// IDDFS runs a depth-limited DFS from the start node with the bound set to
// 0, 1, 2, … up to (but excluding) the configured maximum, stopping at the
// first bound that reaches the goal. It keeps DFS's small memory footprint
// while trying the shallowest bound first, so the route found is never
// longer than necessary for that bound. There are no edge weights and no
// cost optimality beyond that.
//
// # Usage
//
//	g, _ := graph.LoadEdgeListFile("romania.txt")
//	res, err := search.New().FindPath("Arad", "Bucharest", 1000, g)
//	switch {
//	case errors.Is(err, errors.ErrCodeUnknownNode):
//	    // start or goal is not on the map; nothing was explored
//	case errors.Is(err, errors.ErrCodeDepthExhausted):
//	    // no route within the bound; res.Trace still shows the effort
//	case err == nil:
//	    fmt.Println(res.Path) // Arad -> Sibiu -> Fagaras -> Bucharest
//	}
//
// # Depth Bounds
//
// A bound of b permits b edge traversals from the start. Bound 0 only checks
// whether the start is the goal, so a route of h hops is found at bound h and
// needs a max depth of at least h+1.
//
// # Cycle Avoidance
//
// The search keeps no visited set. Two strategies stop it from bouncing
// straight back along the edge it came from:
//
//   - [PruneBackEdges] (default): before descending from u into v, u is
//     removed from v's neighbor list. The removal is permanent for the rest
//     of the FindPath call, including later, deeper bounds, so the work
//     graph shrinks as the search proceeds. Edges are only ever removed, so
//     any route found uses edges of the original graph. What later attempts
//     can still reach depends on what earlier attempts pruned; on trees the
//     pruned edges are exactly the ones pointing back toward the start.
//   - [ExcludeParent]: nothing is mutated; when expanding v the node it was
//     entered from is skipped. Longer cycles are revisited up to the bound,
//     and every route that exists within the tried bounds is found.
//
// By default the engine searches a private [graph.Graph.Clone], so calling
// FindPath repeatedly on the same graph gives the same answer. [WithInPlace]
// prunes the caller's graph directly; a second search over that graph may
// then find a different route or none at all.
//
// # Trace
//
// Every node the explorer enters, in every attempt, is appended to a [Trace]
// with its depth in that attempt. The trace never influences the search; it
// exists for diagnostics and renders as tab-indented lines.
//
// # Bounding Work
//
// The number of visits grows exponentially with the bound on dense graphs,
// especially under ExcludeParent. [Engine.FindPathContext] checks its
// context every 1024 visits and [WithMaxVisits] caps the visits of one call;
// both stop the search with SEARCH_ABORTED and keep the partial trace.
//
// # Concurrency
//
// An [Engine] holds only configuration and may be shared between goroutines.
// Each FindPath call owns its trace, path and work graph. Concurrent calls on
// the same [graph.Graph] are safe only while WithInPlace is not used.
package search
