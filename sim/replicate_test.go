package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replicateOptions(n int) Options {
	return Options{
		Process:      func() Process { return singleStub(1, 1, 1) },
		Planner:      func() Planner { return PlannerFunc(assignFirst) },
		Reporter:     func() Reporter { return NewStatsReporter(0) },
		Horizon:      100,
		Replications: n,
		BaseSeed:     42,
	}
}

func TestReplicate_MissingFactories_ConfigurationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"nil process factory", func(o *Options) { o.Process = nil }},
		{"nil planner factory", func(o *Options) { o.Planner = nil }},
		{"nil reporter factory", func(o *Options) { o.Reporter = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := replicateOptions(2)
			tc.mutate(&opts)

			_, err := Replicate(context.Background(), opts)

			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("err = %v, want *ConfigurationError", err)
			}
		})
	}
}

func TestReplicate_NonPositiveReplications_ConfigurationError(t *testing.T) {
	opts := replicateOptions(0)

	_, err := Replicate(context.Background(), opts)

	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v, want *ConfigurationError", err)
	}
}

func TestReplicate_SeedsAreBasePlusIndex(t *testing.T) {
	opts := replicateOptions(4)
	opts.BaseSeed = 100

	results, err := Replicate(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, res := range results {
		if res.Replication != i {
			t.Errorf("result %d: Replication = %d", i, res.Replication)
		}
		if res.Seed != int64(100+i) {
			t.Errorf("result %d: Seed = %d, want %d", i, res.Seed, 100+i)
		}
		if res.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, res.Err)
		}
		if res.Summary == nil {
			t.Errorf("result %d: missing summary", i)
		}
	}
}

func TestReplicate_OneFailure_DoesNotCancelSiblings(t *testing.T) {
	// GIVEN a planner factory that fails only on its second instantiation
	var mu sync.Mutex
	instance := 0
	opts := replicateOptions(3)
	opts.Planner = func() Planner {
		mu.Lock()
		instance++
		n := instance
		mu.Unlock()
		if n == 2 {
			return PlannerFunc(func(*Snapshot) ([]Assignment, error) {
				return nil, fmt.Errorf("instance %d refuses to plan", n)
			})
		}
		return PlannerFunc(assignFirst)
	}

	// WHEN replicating serially so instance order is deterministic
	results, err := Replicate(context.Background(), opts)

	// THEN the joined error names the failed replication and the other
	// replications still carry summaries
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replication 1")

	var pf *PlannerFailure
	if !errors.As(results[1].Err, &pf) {
		t.Errorf("results[1].Err = %v, want *PlannerFailure", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("sibling replications failed: %v, %v", results[0].Err, results[2].Err)
	}

	sums := Summaries(results)
	if len(sums) != 2 {
		t.Errorf("Summaries() kept %d results, want 2", len(sums))
	}
}

func TestReplicate_CancelledContext_SkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Replicate(ctx, replicateOptions(3))

	require.Error(t, err)
	for i, res := range results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("result %d: Err = %v, want context.Canceled", i, res.Err)
		}
	}
	if len(Summaries(results)) != 0 {
		t.Error("cancelled replications should produce no summaries")
	}
}

func TestReplicate_ParallelMatchesSerial(t *testing.T) {
	// Replications are seeded independently of scheduling, so the parallel
	// run must reproduce the serial run result for result.
	serialOpts := replicateOptions(6)
	parallelOpts := replicateOptions(6)
	parallelOpts.Parallelism = 4

	serial, err := Replicate(context.Background(), serialOpts)
	require.NoError(t, err)
	parallel, err := Replicate(context.Background(), parallelOpts)
	require.NoError(t, err)

	require.Equal(t, len(serial), len(parallel))
	for i := range serial {
		assert.Equal(t, serial[i].Seed, parallel[i].Seed, "replication %d seed", i)
		assert.Equal(t, serial[i].Summary, parallel[i].Summary, "replication %d summary", i)
	}
}

func TestReplicate_OnResult_CalledPerReplication(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	opts := replicateOptions(5)
	opts.Parallelism = 2
	opts.OnResult = func(res ReplicationResult) {
		mu.Lock()
		seen[res.Replication] = true
		mu.Unlock()
	}

	_, err := Replicate(context.Background(), opts)
	require.NoError(t, err)

	if len(seen) != 5 {
		t.Errorf("OnResult saw %d replications, want 5", len(seen))
	}
}

func TestAggregate_MeanAndHalfWidth(t *testing.T) {
	sums := []Summary{
		{"avg cycle time": 1},
		{"avg cycle time": 2},
		{"avg cycle time": 3},
	}

	est := Aggregate(sums)["avg cycle time"]

	assert.Equal(t, 3, est.N)
	assert.InDelta(t, 2.0, est.Mean, 1e-12)
	// Sample stddev 1, t(0.975, df=2) = 4.30265: half-width 4.30265/sqrt(3).
	assert.InDelta(t, 2.4841, est.HalfWidth, 1e-3)
}

func TestAggregate_SingleReplication_NoHalfWidth(t *testing.T) {
	est := Aggregate([]Summary{{"nr tasks": 7}})["nr tasks"]

	if est.N != 1 || est.Mean != 7 {
		t.Errorf("estimate = %+v, want mean 7 over 1", est)
	}
	if est.HalfWidth != 0 {
		t.Errorf("HalfWidth = %g, want 0 for a single replication", est.HalfWidth)
	}
}

func TestAggregate_MetricMissingFromSomeSummaries(t *testing.T) {
	sums := []Summary{
		{"nr tasks": 4, "nr rejected assignments": 1},
		{"nr tasks": 6},
	}

	est := Aggregate(sums)

	assert.Equal(t, 2, est["nr tasks"].N)
	assert.InDelta(t, 5.0, est["nr tasks"].Mean, 1e-12)
	assert.Equal(t, 1, est["nr rejected assignments"].N)
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, want empty", got)
	}
}
