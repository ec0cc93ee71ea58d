// Package report implements the out-of-scope collaborator boundary
// spec.md §6 describes: the core exposes per-run statistics; any
// CSV/Markdown rendering is external. This package only accumulates
// the sink those renderers would consume. Grounded on the teacher's
// ExecutionStats (internal/parallel/pool.go) for a plain
// stats-accumulator struct, adapted from goroutine-pool throughput
// counters to solver-run benchmark samples.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/gitrdm/solverforge/pkg/score"
	"github.com/gitrdm/solverforge/pkg/solver"
)

// BestScoreSample is one point on the best-score curve a report
// renders.
type BestScoreSample struct {
	Step  int64
	Score string
	At    time.Duration // offset from run start
}

// Run is the per-run statistics spec.md §6 names: final score, wall
// time, step count, moves evaluated, score calculations, best-score
// curve samples.
type Run struct {
	RunID                 uuid.UUID
	FinalScore            string
	WallTime              time.Duration
	StepCount             int64
	MoveCount             int64
	ScoreCalculationCount int64
	BestScoreCurve        []BestScoreSample
}

// FromResult builds a Run from a solver.Result, sampling the
// termination stats' score history into the curve.
func FromResult(res solver.Result) Run {
	run := Run{
		RunID:                 res.RunID,
		FinalScore:            scoreString(res.BestScore),
		StepCount:             res.Stats.StepCount,
		MoveCount:             res.Stats.MoveCount,
		ScoreCalculationCount: res.Stats.ScoreCalculationCount,
	}
	if !res.Stats.StartedAt.IsZero() {
		run.WallTime = res.Stats.Now.Sub(res.Stats.StartedAt)
	}
	for _, sample := range res.Stats.ScoreHistory {
		offset := sample.At.Sub(res.Stats.StartedAt)
		run.BestScoreCurve = append(run.BestScoreCurve, BestScoreSample{
			Step: sample.Step, Score: scoreString(sample.Score), At: offset,
		})
	}
	return run
}

func scoreString(s score.Score) string {
	if s == nil {
		return ""
	}
	return s.String()
}

// Sink accumulates Runs across repeated benchmark invocations — e.g.
// running the same scenario under several seeds to characterize
// variance — without owning how they are eventually rendered.
type Sink struct {
	Runs []Run
}

func (s *Sink) Add(r Run) { s.Runs = append(s.Runs, r) }
