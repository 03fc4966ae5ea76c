package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/pipeline"
	"github.com/matzehuels/waypoint/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file; the extension picks the format when format is empty
	format   string // "dot" or "svg"
	maxDepth int
	strategy string
	noCache  bool
}

// renderCommand creates the render command. With start and goal it runs a
// search first and highlights the route and the visited nodes.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph> [start goal]",
		Short: "Draw a graph as DOT or SVG",
		Example: `  waypoint render romania.txt -o romania.svg
  waypoint render romania.txt Arad Bucharest -o route.dot`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return errors.New(errors.ErrCodeInvalidInput, "render takes a graph and optionally a start and goal")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-depth") {
				opts.maxDepth = c.Config.Search.MaxDepth
			}
			if !cmd.Flags().Changed("strategy") {
				opts.strategy = c.Config.Search.Strategy
			}
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (required)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot or svg (default from extension)")
	cmd.Flags().IntVarP(&opts.maxDepth, "max-depth", "d", pipeline.DefaultMaxDepth, "number of depth bounds to try")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", pipeline.DefaultStrategy, "cycle avoidance: prune or parent")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()

	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	if err := render.ValidateFormat(format); err != nil {
		return err
	}

	g, err := pipeline.LoadGraph(ctx, args[0])
	if err != nil {
		return err
	}

	runner := c.newRunner(cmd, opts.noCache)
	defer runner.Close()

	var out *pipeline.Outcome
	if len(args) == 3 {
		out, _, err = runner.Run(ctx, g, pipeline.Query{
			Start:    args[1],
			Goal:     args[2],
			MaxDepth: opts.maxDepth,
			Strategy: opts.strategy,
		})
		if out == nil {
			return err
		}
		if err != nil {
			printWarning(cmd.ErrOrStderr(), "%s", errors.UserMessage(err))
		}
	}

	return writeRendered(cmd, runner, g, out, format, opts.output)
}
