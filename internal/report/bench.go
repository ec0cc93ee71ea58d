package report

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/solver"
)

// BenchStats accumulates atomic counters across a concurrent batch of
// benchmark solver invocations. Grounded on internal/parallel's
// ExecutionStats (the same atomic-counter-plus-duration-tracking
// idiom) but trimmed to what repeated benchmark sampling actually
// needs: this package has no queue-depth or worker-scaling signal to
// record since each sample runs to completion in isolation, and no
// deadlock detector since a solver run never blocks on another
// goroutine the way a miniKanren goal evaluation can.
type BenchStats struct {
	submitted int64
	completed int64
	failed    int64
	totalTime int64 // nanoseconds, accumulated across completed runs
}

func (bs *BenchStats) recordSubmitted() { atomic.AddInt64(&bs.submitted, 1) }
func (bs *BenchStats) recordCompleted(d time.Duration) {
	atomic.AddInt64(&bs.completed, 1)
	atomic.AddInt64(&bs.totalTime, int64(d))
}
func (bs *BenchStats) recordFailed() { atomic.AddInt64(&bs.failed, 1) }

// Submitted, Completed, and Failed report the current counter values.
func (bs *BenchStats) Submitted() int64 { return atomic.LoadInt64(&bs.submitted) }
func (bs *BenchStats) Completed() int64 { return atomic.LoadInt64(&bs.completed) }
func (bs *BenchStats) Failed() int64    { return atomic.LoadInt64(&bs.failed) }

// MeanDuration is the average wall time of every completed run so far.
func (bs *BenchStats) MeanDuration() time.Duration {
	completed := bs.Completed()
	if completed == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&bs.totalTime) / completed)
}

// BenchRunner runs the same scenario repeatedly — across several seeds
// or director instances — to characterize score variance, never to
// parallelize a single solve: spec.md's concurrency boundary (§9, the
// one-writer-per-solve invariant) forbids sharing a Director across
// goroutines, so Sample below must hand each goroutine its own fresh
// Director and Solver.
type BenchRunner struct {
	// Concurrency bounds how many samples run at once; <= 0 leaves
	// errgroup's default, which places no limit.
	Concurrency int

	Stats BenchStats
}

// SampleFactory produces one independent (solver, director) pair for
// a single benchmark sample — e.g. a freshly-seeded construction plus
// a fresh working-solution clone — so concurrent samples never share
// mutable solving state.
type SampleFactory func(sampleIndex int) (*solver.Solver, *director.Director)

// Run executes n independent samples concurrently (bounded by
// Concurrency), collecting each into a Sink. Once ctx is canceled,
// samples that have not started yet are skipped and left out of the
// Sink, and the canceled batch counts as one failure in Stats. Panics
// inside a sample are not recovered.
func (br *BenchRunner) Run(ctx context.Context, n int, factory SampleFactory) *Sink {
	sink := &Sink{}
	results := make([]*Run, n)

	group, gctx := errgroup.WithContext(ctx)
	if br.Concurrency > 0 {
		group.SetLimit(br.Concurrency)
	}

	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			br.Stats.recordSubmitted()
			start := time.Now()
			s, dir := factory(i)
			res := s.Solve(dir)
			br.Stats.recordCompleted(time.Since(start))
			run := FromResult(res)
			results[i] = &run
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		br.Stats.recordFailed()
	}
	for _, r := range results {
		if r != nil {
			sink.Add(*r)
		}
	}
	return sink
}
