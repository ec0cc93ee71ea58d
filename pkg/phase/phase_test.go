package phase

import (
	"reflect"
	"testing"
	"time"

	"github.com/gitrdm/solverforge/pkg/acceptor"
	"github.com/gitrdm/solverforge/pkg/constraint"
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/forager"
	"github.com/gitrdm/solverforge/pkg/move"
	"github.com/gitrdm/solverforge/pkg/score"
	"github.com/gitrdm/solverforge/pkg/selector"
	"github.com/gitrdm/solverforge/pkg/termination"
)

// maximizeValue rewards each cell by its own Value, so raising a
// cell's Value is always a strict score improvement — enough signal
// for HillClimbing and BestFit to have something real to compare.
func maximizeValue() constraint.Constraint {
	u := constraint.ForEach[int]("cells", func(_ domain.EntityRef, raw any) int { return raw.(*cell).Value })
	return constraint.AsConstraint("maximize_value", u.Reward(score.Simple(0), func(v int) score.Score { return score.Simple(int64(v)) }))
}

type cell struct {
	Value int
}

type grid struct {
	Cells []cell
}

func newGridDirector(values ...int) (*director.Director, *domain.VariableDescriptor) {
	g := &grid{Cells: make([]cell, len(values))}
	for i, v := range values {
		g.Cells[i].Value = v
	}
	sd := domain.NewSolutionDescriptor(score.KindSimple)
	sd.AddValueRange("value", domain.IntegerRange{From: 0, To: 4})
	sd.AddEntity(&domain.EntityDescriptor{
		Name: "cells",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*grid).Cells)
		},
		Variables: []*domain.VariableDescriptor{
			domain.Genuine("value", "value",
				func(e any) any { return e.(*cell).Value },
				func(e any, v any) { e.(*cell).Value = v.(int) },
			),
		},
	})
	d := director.New(sd, g, []constraint.Constraint{maximizeValue()}, nil)
	d.CalculateScore()
	return d, sd.EntityDescriptorFor("cells").VariableByName("value")
}

func newContext(d *director.Director, terminated func() bool) *Context {
	return &Context{
		Director: d,
		Arena:    move.NewArena(4),
		Stats:    &termination.Stats{StartedAt: time.Now(), Now: time.Now(), BestScore: score.Simple(0)},
		Terminated: terminated,
		OnStep:     func(score.Score, bool) {},
	}
}

// stepLimited returns a Terminated func that fires once n steps have run.
func stepLimited(ctx *Context, n int64) func() bool {
	return func() bool { return ctx.Stats.StepCount >= n }
}

func TestConstructionHeuristicPlacesUntilPlacerReturnsNil(t *testing.T) {
	d, variable := newGridDirector(0, 0)
	ctx := newContext(d, func() bool { return false })

	placements := [][]move.Move{
		{&move.Change{Ref: domain.EntityRef{Collection: "cells", Position: 0}, Variable: variable, NewValue: 3}},
		{&move.Change{Ref: domain.EntityRef{Collection: "cells", Position: 1}, Variable: variable, NewValue: 2}},
		nil,
	}
	calls := 0
	ch := &ConstructionHeuristic{
		Placer: func(*Context) []move.Move {
			out := placements[calls]
			calls++
			return out
		},
		Forager: forager.FirstFit{},
	}
	ch.Run(ctx)

	if calls != 3 {
		t.Fatalf("Placer called %d times, want 3 (stops once it returns nil)", calls)
	}
	if ctx.Stats.StepCount != 2 {
		t.Fatalf("StepCount = %d, want 2", ctx.Stats.StepCount)
	}
	if variable.Get(&d.Solution().(*grid).Cells[0]) != 3 || variable.Get(&d.Solution().(*grid).Cells[1]) != 2 {
		t.Fatalf("construction heuristic did not commit both placements: %+v", d.Solution().(*grid).Cells)
	}
}

func TestConstructionHeuristicStopsWhenTerminatedEarly(t *testing.T) {
	d, variable := newGridDirector(0, 0)
	ctx := newContext(d, nil)
	ctx.Terminated = stepLimited(ctx, 0)

	calls := 0
	ch := &ConstructionHeuristic{
		Placer: func(*Context) []move.Move {
			calls++
			return []move.Move{&move.Change{Ref: domain.EntityRef{Collection: "cells", Position: 0}, Variable: variable, NewValue: 1}}
		},
		Forager: forager.FirstFit{},
	}
	ch.Run(ctx)

	if calls != 0 {
		t.Fatalf("Placer called %d times, want 0 (already terminated)", calls)
	}
}

func TestLocalSearchAppliesAcceptedMovesAndUndoesRejected(t *testing.T) {
	d, variable := newGridDirector(0)
	ctx := newContext(d, nil)

	// First candidate improves (0 -> 1, score Simple(1) beats 0); the
	// single-move selector then offers only a worsening move on every
	// later call, which HillClimbing must reject and LocalSearch must
	// undo without committing. Terminated fires once the selector has
	// been polled twice, regardless of how many of those steps the
	// acceptor actually committed.
	calls := 0
	ctx.Terminated = func() bool { return calls >= 2 }
	sel := selector.Func(func(*director.Director) []move.Move {
		calls++
		ref := domain.EntityRef{Collection: "cells", Position: 0}
		if calls == 1 {
			return []move.Move{&move.Change{Ref: ref, Variable: variable, NewValue: 1}}
		}
		return []move.Move{&move.Change{Ref: ref, Variable: variable, NewValue: 0}}
	})

	ls := &LocalSearch{
		Selector: sel,
		Forager:  forager.FirstAccepted{},
		Acceptor: &acceptor.HillClimbing{},
	}
	ls.Run(ctx)

	got := variable.Get(&d.Solution().(*grid).Cells[0])
	if got != 1 {
		t.Fatalf("Cells[0].Value = %v, want 1 (second step's worsening move must stay undone)", got)
	}
	if ctx.Stats.StepCount != 1 {
		t.Fatalf("StepCount = %d, want 1 (only the accepted step counts)", ctx.Stats.StepCount)
	}
}

func TestVariableNeighborhoodDescentAdvancesWhenExhausted(t *testing.T) {
	d, variable := newGridDirector(0)
	ctx := newContext(d, nil)
	ctx.Terminated = stepLimited(ctx, 1)

	ref := domain.EntityRef{Collection: "cells", Position: 0}
	emptyCalls, improvingCalls := 0, 0
	empty := selector.Func(func(*director.Director) []move.Move {
		emptyCalls++
		return nil
	})
	improving := selector.Func(func(*director.Director) []move.Move {
		improvingCalls++
		return []move.Move{&move.Change{Ref: ref, Variable: variable, NewValue: 2}}
	})

	v := &VariableNeighborhoodDescent{
		Neighborhoods: []Neighborhood{
			{Selector: empty, Forager: forager.BestFit{}},
			{Selector: improving, Forager: forager.BestFit{}},
		},
	}
	v.Run(ctx)

	if emptyCalls == 0 || improvingCalls == 0 {
		t.Fatalf("descent did not visit both neighborhoods: empty=%d improving=%d", emptyCalls, improvingCalls)
	}
	if got := variable.Get(&d.Solution().(*grid).Cells[0]); got != 2 {
		t.Fatalf("Cells[0].Value = %v, want 2 (the second neighborhood's improving move)", got)
	}
}
