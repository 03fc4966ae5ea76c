package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
	"github.com/matzehuels/waypoint/pkg/pipeline"
)

// showCommand creates the show command for inspecting a graph.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <graph>",
		Short: "Print a graph's adjacency lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := pipeline.LoadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "Graph", args[0])
			printKeyValue(w, "Nodes", fmt.Sprint(g.NodeCount()))
			printKeyValue(w, "Edges", fmt.Sprint(g.EdgeCount()))
			fmt.Fprintln(w)
			fmt.Fprintln(w, StyleTitle.Render("-- Adjacent Cities (Edge Dictionary Data) ------------------------"))
			return graph.WriteTable(g, w)
		},
	}
}

// exportCommand creates the export command for converting between graph
// formats.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <graph>",
		Short: "Convert a graph to JSON or an edge list",
		Long: `Export writes the graph in the format chosen by the extension of the
output file: .json for JSON, anything else for an edge list. Without -o the
JSON form is written to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := pipeline.LoadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return graph.WriteJSON(g, cmd.OutOrStdout())
			}
			if err := exportGraph(g, output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Exported %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or edge list)")
	return cmd
}

func exportGraph(g *graph.Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return graph.ExportJSON(g, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := graph.WriteEdgeList(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
