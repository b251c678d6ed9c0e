package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Options configures a replicated experiment. The factories are invoked
// once per replication so every instance gets fresh, unshared state.
type Options struct {
	Process  func() Process
	Planner  func() Planner
	Reporter func() Reporter

	Horizon      float64
	Replications int

	// BaseSeed keys replication i with BaseSeed + i.
	BaseSeed int64

	// Parallelism bounds the number of replications in flight; values below
	// one run serially.
	Parallelism int

	// OnResult, when set, is called as each replication finishes. It runs on
	// the worker goroutines, so it must be safe for concurrent use.
	OnResult func(ReplicationResult)
}

// ReplicationResult is the outcome of a single replication.
type ReplicationResult struct {
	Replication int
	Seed        int64
	Summary     Summary
	Err         error
}

// Replicate runs the configured number of independent replications and
// returns their results indexed by replication number. A failed replication
// records its error in its slot without stopping the others; the returned
// error joins all per-replication failures. Cancelling the context skips
// replications that have not started yet.
func Replicate(ctx context.Context, opts Options) ([]ReplicationResult, error) {
	if opts.Process == nil || opts.Planner == nil || opts.Reporter == nil {
		return nil, &ConfigurationError{Component: "replicate", Reason: "process, planner and reporter factories are required"}
	}
	if opts.Replications <= 0 {
		return nil, &ConfigurationError{Component: "replicate", Reason: fmt.Sprintf("replications %d must be positive", opts.Replications)}
	}

	limit := opts.Parallelism
	if limit < 1 {
		limit = 1
	}

	results := make([]ReplicationResult, opts.Replications)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < opts.Replications; i++ {
		i := i
		g.Go(func() error {
			res := ReplicationResult{Replication: i, Seed: opts.BaseSeed + int64(i)}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				reporter := opts.Reporter()
				res.Err = runOnce(opts, res.Seed, reporter)
				if res.Err == nil {
					res.Summary = reporter.Summary()
				}
			}
			results[i] = res
			if opts.OnResult != nil {
				opts.OnResult(res)
			}
			return nil
		})
	}
	// Workers record failures in their slot instead of returning them, so
	// one bad replication never cancels its siblings.
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("replication %d (seed %d): %w", res.Replication, res.Seed, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func runOnce(opts Options, seed int64, reporter Reporter) error {
	s, err := NewSimulator(opts.Process(), opts.Planner(), reporter, Config{Seed: seed, Horizon: opts.Horizon})
	if err != nil {
		return err
	}
	return s.Run()
}

// Summaries extracts the summaries of the successful replications.
func Summaries(results []ReplicationResult) []Summary {
	out := make([]Summary, 0, len(results))
	for _, res := range results {
		if res.Err == nil && res.Summary != nil {
			out = append(out, res.Summary)
		}
	}
	return out
}

// Estimate is the cross-replication aggregate of one metric.
type Estimate struct {
	Mean float64

	// HalfWidth is the 95% Student-t confidence half-width; zero when fewer
	// than two replications carry the metric.
	HalfWidth float64

	N int
}

// Aggregate combines per-replication summaries into a mean and confidence
// half-width per metric. A metric missing from some summaries is aggregated
// over the summaries that carry it.
func Aggregate(summaries []Summary) map[string]Estimate {
	series := make(map[string][]float64)
	for _, s := range summaries {
		for k, v := range s {
			series[k] = append(series[k], v)
		}
	}

	out := make(map[string]Estimate, len(series))
	for k, xs := range series {
		est := Estimate{Mean: stat.Mean(xs, nil), N: len(xs)}
		if len(xs) >= 2 {
			dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(xs) - 1)}
			est.HalfWidth = dist.Quantile(0.975) * stat.StdDev(xs, nil) / math.Sqrt(float64(len(xs)))
		}
		out[k] = est
	}
	return out
}
