package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc is told about every finished figure. It is called from the
// worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int, res *Result)

// BatchStats summarises a batch.
type BatchStats struct {
	Total    int
	Rendered int
	Failed   int
	Degraded int
	CacheHit int
	Duration time.Duration
}

// RunBatch renders jobs on at most opts.Workers goroutines. Results are in
// job order; one figure failing or timing out never stops the others. The
// error is non-nil only when opts are invalid.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job, opts Options, progress ProgressFunc) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	results := make([]*Result, len(jobs))
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.Run(ctx, job, opts)
			if err != nil {
				return err
			}
			results[i] = res
			if progress != nil {
				progress(int(done.Add(1)), len(jobs), res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := Summarize(results)
	opts.Logger.Info("batch complete",
		"figures", st.Total,
		"rendered", st.Rendered,
		"failed", st.Failed,
		"degraded", st.Degraded,
		"memo_hits", st.CacheHit,
		"workers", opts.Workers,
		"duration", time.Since(start))
	return results, nil
}

// Summarize counts outcomes. Nil results are skipped.
func Summarize(results []*Result) BatchStats {
	var st BatchStats
	for _, res := range results {
		if res == nil {
			continue
		}
		st.Total++
		if res.Failed() {
			st.Failed++
		} else {
			st.Rendered++
			if res.Metadata.Degraded {
				st.Degraded++
			}
		}
		if res.CacheHit {
			st.CacheHit++
		}
		st.Duration += res.Stats.Total
	}
	return st
}
