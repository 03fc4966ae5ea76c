package graph

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/waypoint/pkg/errors"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID string `json:"id"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "A"}, {"id": "B"}],
//	  "edges": [{"from": "A", "to": "B"}]
//	}
//
// Edges are undirected; "from" and "to" only fix the neighbor order. Every
// edge endpoint must be declared in "nodes". Node IDs may contain spaces but
// not control characters. Declared nodes without edges are
// kept as isolated nodes.
//
// Decoding and structural errors are reported as MALFORMED_INPUT.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode")
	}

	g := New()
	for _, n := range data.Nodes {
		if err := errors.ValidateNodeName(n.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "node %q", n.ID)
		}
		if err := g.AddNode(n.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "node %q", n.ID)
		}
	}
	for _, e := range data.Edges {
		if !g.Has(e.From) {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, ErrUnknownNode, "edge %s-%s: %q", e.From, e.To, e.From)
		}
		if !g.Has(e.To) {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, ErrUnknownNode, "edge %s-%s: %q", e.From, e.To, e.To)
		}
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "edge %s-%s", e.From, e.To)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteJSON encodes g as indented JSON. Nodes are written in first-seen order
// and edges as reconstructed by [Graph.Edges], so ReadJSON rebuilds a graph
// with the same neighbor order.
func WriteJSON(g *Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: []edge{},
	}
	for _, id := range g.order {
		out.Nodes = append(out.Nodes, node{ID: id})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// Marshal returns the JSON encoding of g. The bytes depend on node and
// neighbor order, which is what makes them usable as a cache key input:
// two graphs with the same edges in a different order can yield different
// search results.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
