package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
)

// BatchItem is the result of one query of a batch.
type BatchItem struct {
	Query   Query
	Outcome *Outcome // nil when Err is an invalid-query error
	Cached  bool
	Err     error
	Elapsed time.Duration
}

// RunBatch runs queries against g with at most concurrency searches in
// flight (DefaultConcurrency when not positive). Results keep the order of
// queries.
//
// A failing query does not stop the batch; its error is recorded in its
// item. RunBatch itself fails only when ctx is canceled.
func (r *Runner) RunBatch(ctx context.Context, g *graph.Graph, queries []Query, concurrency int) ([]BatchItem, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}

	items := make([]BatchItem, len(queries))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, q := range queries {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			began := time.Now()
			out, cached, err := r.run(egCtx, g, hash, q)
			if ctxErr := egCtx.Err(); ctxErr != nil {
				return ctxErr
			}
			items[i] = BatchItem{
				Query:   q,
				Outcome: out,
				Cached:  cached,
				Err:     err,
				Elapsed: time.Since(began),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	found := 0
	for _, it := range items {
		if it.Err == nil {
			found++
		}
	}
	r.Logger.Info("batch finished", "queries", len(queries), "found", found)
	return items, nil
}
