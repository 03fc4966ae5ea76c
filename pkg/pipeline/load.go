package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
	"github.com/matzehuels/waypoint/pkg/observability"
)

// LoadGraph reads a graph file: JSON for a .json extension, the edge-list
// format otherwise.
func LoadGraph(ctx context.Context, path string) (*graph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}

	began := time.Now()
	var (
		g   *graph.Graph
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		g, err = graph.ImportJSON(path)
	} else {
		g, err = graph.LoadEdgeListFile(path)
	}

	nodes, edges := 0, 0
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	observability.Search().OnGraphLoaded(ctx, path, nodes, edges, time.Since(began), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}
