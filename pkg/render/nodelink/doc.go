// Package nodelink draws route-finding graphs as node-link diagrams with
// Graphviz.
//
// Nodes are ellipses joined by undirected edges, placed by the neato
// layout engine. A found route is highlighted: the start and goal are
// filled, its hops are drawn thick. Nodes the search entered without
// using them can be shaded from a trace.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Path: res.Path})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] is pure string generation; [RenderSVG] runs the WebAssembly build
// of Graphviz bundled with github.com/goccy/go-graphviz, so no system
// installation is needed.
package nodelink
