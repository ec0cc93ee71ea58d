// Package phase implements spec.md §4.9's phase loop: a bounded
// segment of solving with its own selector/forager/acceptor
// configuration. Grounded on the teacher's search.go/parallel_search.go
// (a bounded search loop with pluggable stop conditions), generalized
// from depth/node-count cutoffs to the full termination composition of
// pkg/termination.
package phase

import (
	"github.com/gitrdm/solverforge/pkg/acceptor"
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/forager"
	"github.com/gitrdm/solverforge/pkg/move"
	"github.com/gitrdm/solverforge/pkg/score"
	"github.com/gitrdm/solverforge/pkg/selector"
	"github.com/gitrdm/solverforge/pkg/termination"
)

// Context bundles everything a phase needs from the orchestrator: the
// director to mutate, the arena moves are generated into, the
// termination stats to update and poll, and a callback invoked after
// every committed step so the orchestrator can track best-so-far and
// the benchmark report.
type Context struct {
	Director   *director.Director
	Arena      *move.Arena
	Stats      *termination.Stats
	Terminated func() bool
	OnStep     func(stepScore score.Score, improved bool)
}

// Phase runs a loop of steps against the director.
type Phase interface {
	Run(ctx *Context)
}

// ConstructionHeuristic iterates placements a Placer produces (queued
// or pre-sorted), applying one move per placement; it never undoes,
// implementing spec.md §4.9's "Construction heuristic" phase. Placer
// returns the candidate placement moves for the next unplaced entity,
// or nil once every entity is placed.
type ConstructionHeuristic struct {
	Placer  func(ctx *Context) []move.Move
	Forager forager.Forager
}

func (c *ConstructionHeuristic) Run(ctx *Context) {
	for !ctx.Terminated() {
		candidates := c.Placer(ctx)
		if len(candidates) == 0 {
			return
		}
		evaluated := forager.Evaluate(ctx.Director, arenaRoundTrip(ctx.Arena, candidates))
		chosen, ok := c.Forager.Forage(ctx.Director, evaluated, ctx.Stats.BestScore, ctx.Stats.BestScore, func(forager.Candidate) bool { return true })
		if !ok {
			return
		}
		chosen.Move.Apply(ctx.Director)
		recordStep(ctx, chosen.Score)
	}
}

// LocalSearch iterates a move selector's output under an acceptor,
// applying accepted moves and undoing rejected ones, copying into
// best-so-far on improvement, implementing spec.md §4.9's "Local
// search" phase.
type LocalSearch struct {
	Selector selector.Selector
	Forager  forager.Forager
	Acceptor acceptor.Acceptor

	lastStepScore score.Score
}

func (l *LocalSearch) Run(ctx *Context) {
	l.lastStepScore = ctx.Stats.BestScore
	l.Acceptor.PhaseStarted(ctx.Director, ctx.Stats.BestScore)
	defer l.Acceptor.PhaseEnded(ctx.Director)

	for !ctx.Terminated() {
		l.Acceptor.StepStarted(ctx.Director)
		candidates := l.Selector.Select(ctx.Director)
		evaluated := forager.Evaluate(ctx.Director, arenaRoundTrip(ctx.Arena, candidates))
		ctx.Stats.MoveCount += int64(len(evaluated))

		accepts := func(c forager.Candidate) bool {
			return l.Acceptor.Accept(c.Move, c.Score, ctx.Stats.BestScore)
		}
		chosen, ok := l.Forager.Forage(ctx.Director, evaluated, l.lastStepScore, ctx.Stats.BestScore, accepts)
		if !ok {
			l.Acceptor.StepEnded(ctx.Director, l.lastStepScore)
			continue
		}

		chosen.Move.Apply(ctx.Director)
		if tabu, isTabu := l.Acceptor.(*acceptor.TabuSearch); isTabu {
			tabu.RecordCommitted(chosen.Move)
		}
		l.lastStepScore = chosen.Score
		l.Acceptor.StepEnded(ctx.Director, chosen.Score)
		recordStep(ctx, chosen.Score)
	}
}

// Neighborhood is one member of a VariableNeighborhoodDescent's
// ordered list: a selector/forager pair explored to exhaustion before
// the descent moves on.
type Neighborhood struct {
	Selector selector.Selector
	Forager  forager.Forager
}

// VariableNeighborhoodDescent descends within one neighborhood until
// no further improving move is found, then advances to the next; any
// improvement restarts at the first neighborhood, implementing
// spec.md §4.9's "Variable neighborhood descent" phase.
type VariableNeighborhoodDescent struct {
	Neighborhoods []Neighborhood
}

func (v *VariableNeighborhoodDescent) Run(ctx *Context) {
	i := 0
	for !ctx.Terminated() && i < len(v.Neighborhoods) {
		n := v.Neighborhoods[i]
		candidates := n.Selector.Select(ctx.Director)
		evaluated := forager.Evaluate(ctx.Director, arenaRoundTrip(ctx.Arena, candidates))
		accepts := func(c forager.Candidate) bool { return c.Score.CompareTo(ctx.Stats.BestScore) > 0 }
		chosen, ok := n.Forager.Forage(ctx.Director, evaluated, ctx.Stats.BestScore, ctx.Stats.BestScore, accepts)
		if !ok || chosen.Score.CompareTo(ctx.Stats.BestScore) <= 0 {
			i++
			continue
		}
		chosen.Move.Apply(ctx.Director)
		recordStep(ctx, chosen.Score)
		i = 0
	}
}

// arenaRoundTrip puts every candidate into the step's arena and takes
// it back out by index before handing it to the forager, so a single
// step's moves are always owned by the arena in between — the
// "transfer ownership by index" discipline SPEC_FULL.md's design notes
// call out, rather than selectors handing the phase loop bare slices
// it never relinquishes. The arena is reset per step since a
// selector's candidates never survive past the step that generated
// them.
func arenaRoundTrip(arena *move.Arena, candidates []move.Move) []move.Move {
	arena.Reset()
	indices := make([]int, len(candidates))
	for i, m := range candidates {
		indices[i] = arena.Put(m)
	}
	out := make([]move.Move, len(indices))
	for i, idx := range indices {
		out[i] = arena.Take(idx)
	}
	return out
}

func recordStep(ctx *Context, stepScore score.Score) {
	ctx.Stats.StepCount++
	ctx.Stats.ScoreCalculationCount++
	improved := ctx.Stats.BestScore == nil || stepScore.CompareTo(ctx.Stats.BestScore) > 0
	if improved {
		ctx.Stats.BestScore = stepScore
		ctx.Stats.BestScoreImprovedAt = ctx.Stats.Now
		ctx.Stats.BestScoreImprovedStep = ctx.Stats.StepCount
		ctx.Stats.ScoreHistory = append(ctx.Stats.ScoreHistory, termination.ScoreSample{
			Step: ctx.Stats.StepCount, Score: stepScore, At: ctx.Stats.Now,
		})
	}
	ctx.OnStep(stepScore, improved)
}
