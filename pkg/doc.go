// Package pkg holds the libraries behind waypoint, a route finder for
// undirected graphs.
//
// # Overview
//
// Waypoint loads a graph of named nodes (cities on a map, hosts in a
// network) and finds a route between two of them with iterative deepening
// depth-first search. The pkg directory is organized by concern:
//
//  1. [graph] - adjacency-list graph with edge-list and JSON codecs
//  2. [search] - the IDDFS engine, its visit trace and cycle strategies
//  3. [pipeline] - cached, instrumented searches shared by CLI and server
//  4. [cache] - result cache backends (file, memory, Redis, MongoDB)
//  5. [render] - DOT and SVG drawings with the route highlighted
//  6. [server] - the HTTP API
//  7. [observability] - hooks for metrics, with a Prometheus implementation
//  8. [errors] - coded errors shared by all of the above
//
// # Architecture
//
// The typical data flow:
//
//	edge list / JSON file
//	         ↓
//	    [graph] package (load + validate)
//	         ↓
//	    [pipeline] package (cache lookup, hooks)
//	         ↓
//	    [search] package (IDDFS)
//	         ↓
//	    path + trace → text, JSON, DOT or SVG
//
// # Quick Start
//
//	g, err := graph.LoadEdgeListFile("romania.txt")
//	if err != nil {
//	    return err
//	}
//	res, err := search.FindPath("Arad", "Bucharest", 1000, g)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Path)
//	res.Trace.WriteTo(os.Stdout)
package pkg
