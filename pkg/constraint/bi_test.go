package constraint

import (
	"reflect"
	"testing"

	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

type zonedWorker struct {
	Zone int
}

type zonedTask struct {
	Zone int
}

type zonedPlan struct {
	Workers []zonedWorker
	Tasks   []zonedTask
}

func newZonedPlanDescriptor() *domain.SolutionDescriptor {
	sd := domain.NewSolutionDescriptor(score.KindHardSoft)
	sd.AddValueRange("zone", domain.IntegerRange{From: 0, To: 3})
	sd.AddEntity(&domain.EntityDescriptor{
		Name: "workers",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*zonedPlan).Workers)
		},
		Variables: []*domain.VariableDescriptor{
			domain.Genuine("zone", "zone",
				func(e any) any { return e.(*zonedWorker).Zone },
				func(e any, v any) { e.(*zonedWorker).Zone = v.(int) },
			),
		},
	})
	sd.AddEntity(&domain.EntityDescriptor{
		Name: "tasks",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*zonedPlan).Tasks)
		},
		Variables: []*domain.VariableDescriptor{
			domain.Genuine("zone", "zone",
				func(e any) any { return e.(*zonedTask).Zone },
				func(e any, v any) { e.(*zonedTask).Zone = v.(int) },
			),
		},
	})
	return sd
}

// sameZoneConstraint pairs every worker/task whose Zone matches,
// penalizing 1 hard per pairing — each worker-task match in the same
// zone represents contention for that zone's capacity.
func sameZoneConstraint() Constraint {
	workers := ForEach[int]("workers", func(_ domain.EntityRef, raw any) int { return raw.(*zonedWorker).Zone })
	tasks := ForEach[int]("tasks", func(_ domain.EntityRef, raw any) int { return raw.(*zonedTask).Zone })
	bi := Join[int, int](workers, tasks, EqualKeys(func(z int) int { return z }, func(z int) int { return z }))
	return AsConstraint("same_zone", bi.Penalize(score.HardSoft(0, 0), func(_, _ int) score.Score {
		return score.HardSoft(1, 0)
	}))
}

func TestJoinInitializeMatchesRecompute(t *testing.T) {
	sd := newZonedPlanDescriptor()
	plan := &zonedPlan{
		Workers: []zonedWorker{{Zone: 0}, {Zone: 1}},
		Tasks:   []zonedTask{{Zone: 0}, {Zone: 0}, {Zone: 1}},
	}
	s := groupScanner{descriptor: sd, solution: plan}

	c := sameZoneConstraint()
	c.Initialize(s)
	want := c.Recompute(s)
	if !score.Equal(c.Total(), want) {
		t.Fatalf("Total() after Initialize = %v, want %v (matches Recompute)", c.Total(), want)
	}
	// worker0(zone0) x task0,task1(zone0) = 2 matches; worker1(zone1) x task2(zone1) = 1 match.
	if c.MatchCount() != 3 {
		t.Fatalf("MatchCount() = %d, want 3", c.MatchCount())
	}
	wantScore := score.HardSoft(-3, 0)
	if !score.Equal(c.Total(), wantScore) {
		t.Fatalf("Total() = %v, want %v", c.Total(), wantScore)
	}
}

func TestJoinTracksVariableChangeOnWorkerSide(t *testing.T) {
	sd := newZonedPlanDescriptor()
	plan := &zonedPlan{
		Workers: []zonedWorker{{Zone: 0}},
		Tasks:   []zonedTask{{Zone: 1}},
	}
	s := groupScanner{descriptor: sd, solution: plan}

	c := sameZoneConstraint()
	c.Initialize(s)
	if !score.Equal(c.Total(), score.HardSoft(0, 0)) {
		t.Fatalf("Total() before the zones align = %v, want 0hard/0soft", c.Total())
	}

	ref := domain.EntityRef{Collection: "workers", Position: 0}
	c.BeforeEntityChanged(s, ref)
	plan.Workers[0].Zone = 1
	c.AfterEntityChanged(s, ref)

	got := c.Total()
	want := c.Recompute(s)
	if !score.Equal(got, want) {
		t.Fatalf("Total() after change = %v, want %v (matches Recompute)", got, want)
	}
	if !score.Equal(got, score.HardSoft(-1, 0)) {
		t.Fatalf("Total() = %v, want %v once the worker's zone matches the task's", got, score.HardSoft(-1, 0))
	}
}

func TestJoinFilterDropsPostJoinPairs(t *testing.T) {
	workers := ForEach[int]("workers", func(_ domain.EntityRef, raw any) int { return raw.(*zonedWorker).Zone })
	tasks := ForEach[int]("tasks", func(_ domain.EntityRef, raw any) int { return raw.(*zonedTask).Zone })
	bi := Join[int, int](workers, tasks, EqualKeys(func(z int) int { return z }, func(z int) int { return z })).
		Filter(func(w, t int) bool { return w != 0 })
	c := AsConstraint("same_zone_nonzero", bi.Penalize(score.HardSoft(0, 0), func(_, _ int) score.Score {
		return score.HardSoft(1, 0)
	}))

	sd := newZonedPlanDescriptor()
	plan := &zonedPlan{
		Workers: []zonedWorker{{Zone: 0}, {Zone: 1}},
		Tasks:   []zonedTask{{Zone: 0}, {Zone: 1}},
	}
	s := groupScanner{descriptor: sd, solution: plan}
	c.Initialize(s)

	want := score.HardSoft(-1, 0) // only the zone-1 pairing survives the filter
	if !score.Equal(c.Total(), want) {
		t.Fatalf("Total() = %v, want %v", c.Total(), want)
	}
}
