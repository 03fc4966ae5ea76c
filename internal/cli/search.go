package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
	"github.com/matzehuels/waypoint/pkg/pipeline"
	"github.com/matzehuels/waypoint/pkg/render"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	maxDepth    int
	strategy    string
	showGraph   bool
	output      string
	interactive bool
	noCache     bool
	refresh     bool
	dot         string
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search <graph> <start> <goal>",
		Short: "Find a route between two nodes",
		Long: `Search loads an undirected graph and looks for a route from start to goal
with iterative deepening depth-first search. Every node entered is printed
as the visit trace, indented by its depth in the attempt that entered it.

Files ending in .json are read as JSON graphs, anything else as an edge
list with one "a b" pair per line.`,
		Example: `  waypoint search romania.txt Arad Bucharest
  waypoint search romania.txt Arad Bucharest --max-depth 5 --show-graph
  waypoint search romania.txt Arad Bucharest --strategy parent -o json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applySearchDefaults(cmd, &opts)
			return c.runSearch(cmd, args[0], pipeline.Query{
				Start:    args[1],
				Goal:     args[2],
				MaxDepth: opts.maxDepth,
				Strategy: opts.strategy,
				Refresh:  opts.refresh,
			}, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.maxDepth, "max-depth", "d", pipeline.DefaultMaxDepth, "number of depth bounds to try")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", pipeline.DefaultStrategy, "cycle avoidance: prune or parent")
	cmd.Flags().BoolVarP(&opts.showGraph, "show-graph", "g", false, "print the adjacency lists before searching")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the visit trace interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and search again")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "also write a DOT drawing of the result to this file")

	return cmd
}

// applySearchDefaults fills flags the user did not set from the
// configuration file.
func (c *CLI) applySearchDefaults(cmd *cobra.Command, opts *searchOpts) {
	flags := cmd.Flags()
	if !flags.Changed("max-depth") {
		opts.maxDepth = c.Config.Search.MaxDepth
	}
	if !flags.Changed("strategy") {
		opts.strategy = c.Config.Search.Strategy
	}
	if !flags.Changed("show-graph") {
		opts.showGraph = c.Config.Search.ShowGraph
	}
}

func (c *CLI) runSearch(cmd *cobra.Command, path string, q pipeline.Query, opts searchOpts) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	logger := loggerFromContext(ctx)

	if opts.output != outputText && opts.output != outputJSON {
		return errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (use text or json)", opts.output)
	}
	text := opts.output == outputText

	if text {
		fmt.Fprintln(w, "Loading graph: "+path)
	}
	prog := newProgress(logger)
	g, err := pipeline.LoadGraph(ctx, path)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d nodes, %d edges", g.NodeCount(), g.EdgeCount()))
	if text {
		fmt.Fprintln(w, "  done.")
		if opts.showGraph {
			fmt.Fprintln(w)
			fmt.Fprintln(w, StyleTitle.Render("-- Adjacent Cities (Edge Dictionary Data) ------------------------"))
			if err := graph.WriteTable(g, w); err != nil {
				return err
			}
		}
	}

	runner := c.newRunner(cmd, opts.noCache)
	defer runner.Close()

	out, cached, err := runner.Run(ctx, g, q)
	if out == nil {
		return err
	}

	if opts.dot != "" {
		if derr := writeRendered(cmd, runner, g, out, render.FormatDOT, opts.dot); derr != nil {
			return derr
		}
	}

	switch {
	case !text:
		if werr := writeOutcomeJSON(w, out, cached); werr != nil {
			return werr
		}
	case opts.interactive:
		if _, terr := tea.NewProgram(newTraceModel(out), tea.WithContext(ctx)).Run(); terr != nil {
			return terr
		}
	default:
		writeReport(w, out, cached)
	}
	return err
}

// writeReport prints the visit trace and the solution in the classic
// layout. An unknown start prints a single line instead:
//
//	-- States Visited ----------------
//	A
//	A
//		B
//	...
//	--  Solution for: A to E-------------------
//	A -> B -> D -> E
func writeReport(w io.Writer, out *pipeline.Outcome, cached bool) {
	if out.StartUnknown() {
		fmt.Fprintln(w, StyleFailure.Render("Start location is not in the graph."))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("-- States Visited ----------------"))
	out.TraceLog().WriteTo(w)

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("--  Solution for: "+out.Start+" to "+out.Goal+"-------------------"))
	if out.Found {
		fmt.Fprintln(w, StyleSuccess.Render(out.Path.String()))
	} else {
		fmt.Fprintln(w, StyleFailure.Render("FAIL"))
	}

	printStats(w, len(out.Trace), out.TraceLog().Attempts(), cached)
	if out.Found {
		printDetail(w, "%d hops, found at bound %d (%s)", out.Path.Hops(), out.Bound, out.Strategy)
	} else if out.Message != "" {
		printDetail(w, "%s", out.Message)
	}
}

// searchResult is the JSON form of a search, shared with the HTTP API
// response shape.
type searchResult struct {
	*pipeline.Outcome
	Cached bool `json:"cached"`
}

func writeOutcomeJSON(w io.Writer, out *pipeline.Outcome, cached bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchResult{Outcome: out, Cached: cached})
}

// writeRendered draws g with out highlighted and writes it to path.
func writeRendered(cmd *cobra.Command, runner *pipeline.Runner, g *graph.Graph, out *pipeline.Outcome, format, path string) error {
	data, _, err := runner.Render(cmd.Context(), g, out, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}
