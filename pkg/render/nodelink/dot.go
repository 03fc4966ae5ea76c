package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/waypoint/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Path is drawn highlighted, first node as start and last as goal.
	Path []string

	// Visited nodes not on Path are shaded, typically the nodes of a
	// search trace.
	Visited []string

	// Title is shown as the graph label when set.
	Title string
}

const (
	colorPath    = "#d9480f"
	colorStart   = "#b2f2bb"
	colorGoal    = "#ffc9c9"
	colorVisited = "#e7f5ff"
)

// ToDOT converts an undirected graph to Graphviz DOT. Parallel edges are
// drawn once per occurrence; a path hop over a parallel edge highlights
// only the first.
func ToDOT(g *graph.Graph, opts Options) string {
	onPath := make(map[string]bool, len(opts.Path))
	hops := make(map[[2]string]bool, len(opts.Path))
	for i, id := range opts.Path {
		onPath[id] = true
		if i > 0 {
			hops[edgeKey(opts.Path[i-1], id)] = true
		}
	}
	visited := make(map[string]bool, len(opts.Visited))
	for _, id := range opts.Visited {
		visited[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		attrs := nodeAttrs(id, opts.Path, onPath[id], visited[id])
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		k := edgeKey(e.From, e.To)
		if hops[k] {
			delete(hops, k)
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=3];\n", e.From, e.To, colorPath)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(id string, path []string, onPath, visited bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", id)}
	switch {
	case len(path) > 0 && id == path[0]:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorStart), "penwidth=2")
	case len(path) > 0 && id == path[len(path)-1]:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorGoal), "penwidth=2")
	case visited && !onPath:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorVisited))
	}
	if onPath {
		attrs = append(attrs, fmt.Sprintf("color=%q", colorPath))
	}
	return attrs
}

func edgeKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// RenderSVG renders DOT source to SVG with the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales from a zero
// origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
