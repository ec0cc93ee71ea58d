package report

import (
	"context"
	"reflect"
	"testing"

	"github.com/gitrdm/solverforge/pkg/constraint"
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/phase"
	"github.com/gitrdm/solverforge/pkg/score"
	"github.com/gitrdm/solverforge/pkg/solver"
	"github.com/gitrdm/solverforge/pkg/termination"
)

type cell struct {
	Value int
}

type grid struct {
	Cells []cell
}

func maximizeValue() constraint.Constraint {
	u := constraint.ForEach[int]("cells", func(_ domain.EntityRef, raw any) int { return raw.(*cell).Value })
	return constraint.AsConstraint("maximize_value", u.Reward(score.Simple(0), func(v int) score.Score { return score.Simple(int64(v)) }))
}

func newSample(seedValue int) (*solver.Solver, *director.Director) {
	g := &grid{Cells: []cell{{Value: seedValue}}}
	sd := domain.NewSolutionDescriptor(score.KindSimple)
	sd.AddValueRange("value", domain.IntegerRange{From: 0, To: 10})
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
	s := &solver.Solver{
		Descriptor:  sd,
		Phases:      []phase.Phase{}, // no phases: each sample just reports its seeded score
		Termination: termination.StepCount{Limit: 0},
		ArenaCap:    4,
	}
	return s, d
}

func TestBenchRunnerCollectsOneRunPerSample(t *testing.T) {
	br := &BenchRunner{Concurrency: 2}
	sink := br.Run(context.Background(), 5, func(i int) (*solver.Solver, *director.Director) {
		return newSample(i)
	})

	if len(sink.Runs) != 5 {
		t.Fatalf("Sink has %d runs, want 5", len(sink.Runs))
	}
	if br.Stats.Submitted() != 5 {
		t.Fatalf("Stats.Submitted() = %d, want 5", br.Stats.Submitted())
	}
	if br.Stats.Completed() != 5 {
		t.Fatalf("Stats.Completed() = %d, want 5", br.Stats.Completed())
	}
}

func TestBenchRunnerIndependentSamplesScoreTheirOwnSeed(t *testing.T) {
	br := &BenchRunner{Concurrency: 1}
	sink := br.Run(context.Background(), 2, func(i int) (*solver.Solver, *director.Director) {
		return newSample(i * 3)
	})

	scores := map[string]bool{}
	for _, r := range sink.Runs {
		scores[r.FinalScore] = true
	}
	if !scores["0soft"] || !scores["3soft"] {
		t.Fatalf("run scores = %v, want each sample to reflect its own seeded cell value", scores)
	}
}

func TestBenchRunnerStopsScheduledSamplesOnContextCancel(t *testing.T) {
	br := &BenchRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := br.Run(ctx, 3, func(i int) (*solver.Solver, *director.Director) {
		return newSample(i)
	})

	if len(sink.Runs) != 0 {
		t.Fatalf("Sink has %d runs, want 0 once the context was already canceled", len(sink.Runs))
	}
	if br.Stats.Failed() != 1 {
		t.Fatalf("Stats.Failed() = %d, want 1", br.Stats.Failed())
	}
}

func TestBenchStatsMeanDurationIsZeroWithoutCompletions(t *testing.T) {
	var bs BenchStats
	if bs.MeanDuration() != 0 {
		t.Fatalf("MeanDuration() = %v, want 0 with nothing completed", bs.MeanDuration())
	}
}
