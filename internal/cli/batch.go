package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/pipeline"
)

// batchFile is the TOML layout of a query file:
//
//	[defaults]
//	max_depth = 10
//
//	[[query]]
//	start = "Arad"
//	goal = "Bucharest"
type batchFile struct {
	Defaults pipeline.Query   `toml:"defaults"`
	Queries  []pipeline.Query `toml:"query"`
}

// loadBatchFile reads queries from path and fills unset fields from the
// [defaults] table.
func loadBatchFile(path string) ([]pipeline.Query, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	var f batchFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "query file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "query file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "query file %s: unknown key %s", path, undecoded[0])
	}
	if len(f.Queries) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "query file %s has no [[query]] entries", path)
	}

	for i := range f.Queries {
		q := &f.Queries[i]
		if q.MaxDepth == 0 {
			q.MaxDepth = f.Defaults.MaxDepth
		}
		if q.Strategy == "" {
			q.Strategy = f.Defaults.Strategy
		}
		q.Refresh = q.Refresh || f.Defaults.Refresh
	}
	return f.Queries, nil
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		concurrency int
		output      string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <graph> <queries.toml>",
		Short: "Run many searches over one graph",
		Long: `Batch runs every [[query]] of a TOML file against the same graph,
several at a time. A failing query is reported in the table and does not
stop the others.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("concurrency") {
				concurrency = c.Config.Search.Concurrency
			}
			if output != outputText && output != outputJSON {
				return errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (use text or json)", output)
			}
			return c.runBatch(cmd, args[0], args[1], concurrency, output, noCache)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", pipeline.DefaultConcurrency, "searches to run at once")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, graphPath, queryPath string, concurrency int, output string, noCache bool) error {
	ctx := cmd.Context()

	queries, err := loadBatchFile(queryPath)
	if err != nil {
		return err
	}
	for i := range queries {
		if queries[i].MaxDepth == 0 {
			queries[i].MaxDepth = c.Config.Search.MaxDepth
		}
		if queries[i].Strategy == "" {
			queries[i].Strategy = c.Config.Search.Strategy
		}
	}

	g, err := pipeline.LoadGraph(ctx, graphPath)
	if err != nil {
		return err
	}

	runner := c.newRunner(cmd, noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Running %d searches...", len(queries)))
	spinner.Start()
	items, err := runner.RunBatch(ctx, g, queries, concurrency)
	if err != nil {
		spinner.StopWithError("Batch canceled")
		return err
	}
	found := 0
	for _, it := range items {
		if it.Outcome != nil && it.Outcome.Found {
			found++
		}
	}
	spinner.StopWithSuccess(fmt.Sprintf("%d of %d routes found", found, len(items)))

	if output == outputJSON {
		return writeBatchJSON(cmd.OutOrStdout(), items)
	}
	writeBatchTable(cmd.OutOrStdout(), items)
	return nil
}

func writeBatchTable(w io.Writer, items []pipeline.BatchItem) {
	t := newTable("#", "Start", "Goal", "Result", "Hops", "Visits", "Cache")
	for i, it := range items {
		result, hops, visits, status := "", "-", "-", iconFresh
		switch {
		case it.Outcome == nil:
			result = StyleFailure.Render(string(errors.GetCode(it.Err)))
		case it.Outcome.Found:
			result = StyleSuccess.Render(it.Outcome.Path.String())
			hops = fmt.Sprint(it.Outcome.Path.Hops())
		default:
			result = StyleFailure.Render("FAIL " + string(it.Outcome.Code))
		}
		if it.Outcome != nil {
			visits = fmt.Sprint(len(it.Outcome.Trace))
		}
		if it.Cached {
			status = iconCached
		}
		t.Row(fmt.Sprint(i+1), it.Query.Start, it.Query.Goal, result, hops, visits, status)
	}
	fmt.Fprintln(w, t.Render())
}

// batchResult is the JSON form of one batch item.
type batchResult struct {
	Start   string            `json:"start"`
	Goal    string            `json:"goal"`
	Outcome *pipeline.Outcome `json:"outcome,omitempty"`
	Cached  bool              `json:"cached"`
	Error   string            `json:"error,omitempty"`
}

func writeBatchJSON(w io.Writer, items []pipeline.BatchItem) error {
	results := make([]batchResult, len(items))
	for i, it := range items {
		results[i] = batchResult{
			Start:   it.Query.Start,
			Goal:    it.Query.Goal,
			Outcome: it.Outcome,
			Cached:  it.Cached,
		}
		if it.Err != nil {
			results[i].Error = errors.UserMessage(it.Err)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
