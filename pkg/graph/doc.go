// Package graph provides the undirected adjacency model searched by waypoint,
// together with its loaders and writers.
//
// # Overview
//
// A [Graph] maps each node name to the ordered list of names directly
// connected to it. It is built once from input and handed to the search
// engine. Neighbor order is preserved from the input because the search tries
// neighbors in stored order: the same edges listed differently can produce a
// different (equally short) route.
//
// # Basic Usage
//
// Build a graph with [New] and [Graph.AddEdge], or load one:
//
//	g := graph.New()
//	_ = g.AddEdge("Arad", "Zerind")
//	_ = g.AddEdge("Arad", "Sibiu")
//
//	g, err := graph.LoadEdgeListFile("romania.txt")
//
// # Edge-List Format
//
// One undirected edge per line, two whitespace-separated names. Blank lines
// and '#' comments are skipped:
//
//	# Romania road map (excerpt)
//	Arad Zerind
//	Arad Sibiu
//
// # JSON Format
//
// [ReadJSON] and [WriteJSON] use a node-link document that also carries
// isolated nodes:
//
//	{
//	  "nodes": [{"id": "Arad"}, {"id": "Zerind"}],
//	  "edges": [{"from": "Arad", "to": "Zerind"}]
//	}
//
// # Mutation
//
// [Graph.RemoveNeighbor] deletes one direction of an edge. The search engine
// uses it for back-edge pruning, which leaves the graph asymmetric. Searches
// run on a [Graph.Clone] by default so the caller's graph stays intact.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Reading the same graph from
// several goroutines is fine as long as nobody mutates it; concurrent searches
// each need their own clone.
package graph
