// Package solver ties the phase sequence, termination composition, and
// score director together into the single orchestrator entry point
// spec.md §4.9 describes. Grounded on the teacher's
// solver.go/solver_api.go orchestrator, generalized here from a single
// goal-solving entry point to a phase-sequence-plus-termination
// orchestrator; logs structurally via zap and tags each run with a
// uuid per SPEC_FULL.md's AMBIENT STACK.
package solver

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/move"
	"github.com/gitrdm/solverforge/pkg/phase"
	"github.com/gitrdm/solverforge/pkg/score"
	"github.com/gitrdm/solverforge/pkg/termination"
)

// Solver is a sequence of phases plus a termination, run against one
// working solution.
type Solver struct {
	Descriptor  *domain.SolutionDescriptor
	Phases      []phase.Phase
	Termination termination.Termination
	ArenaCap    int

	// Logger defaults to zap.NewNop() if unset, mirroring the
	// teacher's pattern of always constructing a concrete, non-nil
	// collaborator rather than leaving a zero-value field the caller
	// must nil-check (SPEC_FULL.md "Logging").
	Logger *zap.Logger
}

// Result is what Solve returns: the best solution found, its score,
// and the run statistics a benchmark report renders externally.
type Result struct {
	RunID        uuid.UUID
	BestSolution any
	BestScore    score.Score
	Stats        termination.Stats
}

func (s *Solver) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Solve runs every configured phase in order against dir's working
// solution, stopping the whole run once Termination fires, and
// returns the best-so-far snapshot.
func (s *Solver) Solve(dir *director.Director) Result {
	runID := uuid.New()
	log := s.logger().With(zap.String("run_id", runID.String()))
	log.Info("solve started")

	stats := &termination.Stats{StartedAt: nowOrZero(), Now: nowOrZero()}
	stats.BestScore = dir.CalculateScore()
	stats.ScoreCalculationCount++

	bestSolution := dir.CloneWorkingSolution()

	terminated := func() bool {
		stats.Now = nowOrZero()
		return s.Termination.IsTerminated(stats)
	}

	for i, p := range s.Phases {
		if terminated() {
			break
		}
		log.Debug("phase started", zap.Int("phase_index", i))
		arena := move.NewArena(s.ArenaCap)
		ctx := &phase.Context{
			Director:   dir,
			Arena:      arena,
			Stats:      stats,
			Terminated: terminated,
			OnStep: func(stepScore score.Score, improved bool) {
				log.Debug("step ended",
					zap.Int64("step", stats.StepCount),
					zap.String("score", stepScore.String()),
					zap.Bool("improved", improved),
				)
				if improved {
					bestSolution = dir.CloneWorkingSolution()
				}
			},
		}
		p.Run(ctx)
		arena.Reset()
		log.Debug("phase ended", zap.Int("phase_index", i))
	}

	log.Info("solve ended", zap.String("best_score", stats.BestScore.String()))
	return Result{
		RunID:        runID,
		BestSolution: bestSolution,
		BestScore:    stats.BestScore,
		Stats:        *stats,
	}
}

// nowOrZero wraps time.Now so every call site reads the same way;
// solving always needs wall-clock time (termination, report timing),
// unlike Workflow-style scripts this engine has no reason to avoid it.
func nowOrZero() time.Time { return time.Now() }
