package graph

import (
	"fmt"
	"io"
	"strings"
)

// WriteTable prints the adjacency lists of g, one node per entry, in
// first-seen order:
//
//	  Arad:
//	     [Zerind, Sibiu, Timisoara]
//
// It is meant for inspecting a loaded graph before searching it.
func WriteTable(g *Graph, w io.Writer) error {
	for _, id := range g.order {
		if _, err := fmt.Fprintf(w, "  %s:\n     [%s]\n", id, strings.Join(g.adj[id], ", ")); err != nil {
			return err
		}
	}
	return nil
}
