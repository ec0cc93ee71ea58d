package constraint

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

type worker struct {
	Team  int
	Shift int
}

type roster struct {
	Workers []worker
}

func newRosterDescriptor() *domain.SolutionDescriptor {
	sd := domain.NewSolutionDescriptor(score.KindHardSoft)
	sd.AddValueRange("shift", domain.IntegerRange{From: 0, To: 4})
	sd.AddEntity(&domain.EntityDescriptor{
		Name: "workers",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*roster).Workers)
		},
		Variables: []*domain.VariableDescriptor{
			domain.Genuine("shift", "shift",
				func(e any) any { return e.(*worker).Shift },
				func(e any, v any) { e.(*worker).Shift = v.(int) },
			),
		},
	})
	return sd
}

// groupScanner is a minimal Scanner, avoiding a pkg/director import
// cycle-risk and keeping this test focused on Group in isolation.
type groupScanner struct {
	descriptor *domain.SolutionDescriptor
	solution   any
}

func (s groupScanner) Solution() any                       { return s.solution }
func (s groupScanner) Descriptor() *domain.SolutionDescriptor { return s.descriptor }

type teamShift struct {
	Team, Shift int
}

func teamShiftGroup() *Group[teamShift, int, LoadBalanceStat] {
	return GroupBy[teamShift, int, LoadBalanceStat](
		"workers",
		func(_ domain.EntityRef, raw any) teamShift {
			w := raw.(*worker)
			return teamShift{Team: w.Team, Shift: w.Shift}
		},
		func(v teamShift) int { return v.Team },
		LoadBalanceCollector[teamShift]{Field: func(v teamShift) float64 { return float64(v.Shift) }},
	)
}

func TestGroupByLoadBalanceInitializeMatchesRecompute(t *testing.T) {
	sd := newRosterDescriptor()
	sol := &roster{Workers: []worker{{Team: 0, Shift: 1}, {Team: 0, Shift: 3}, {Team: 1, Shift: 2}, {Team: 1, Shift: 2}}}
	s := groupScanner{descriptor: sd, solution: sol}

	c := teamShiftGroup().Penalize(score.HardSoft(0, 0), func(_ int, stat LoadBalanceStat) score.Score {
		return score.HardSoft(0, int64(stat.Imbalance()))
	})

	c.Initialize(s)
	want := c.Recompute(s)
	if !score.Equal(c.Total(), want) {
		t.Fatalf("Total() after Initialize = %v, want %v (matches Recompute)", c.Total(), want)
	}
	if c.MatchCount() != 4 {
		t.Fatalf("MatchCount() = %d, want 4", c.MatchCount())
	}
}

func TestGroupByLoadBalanceTracksVariableChange(t *testing.T) {
	sd := newRosterDescriptor()
	sol := &roster{Workers: []worker{{Team: 0, Shift: 1}, {Team: 0, Shift: 1}, {Team: 1, Shift: 1}, {Team: 1, Shift: 1}}}
	s := groupScanner{descriptor: sd, solution: sol}

	c := teamShiftGroup().Penalize(score.HardSoft(0, 0), func(_ int, stat LoadBalanceStat) score.Score {
		return score.HardSoft(0, int64(stat.Imbalance()*1000))
	})
	c.Initialize(s)

	balanced := c.Total()
	if !score.Equal(balanced, score.HardSoft(0, 0)) {
		t.Fatalf("balanced roster Total() = %v, want 0hard/0soft", balanced)
	}

	// Unbalance team 0 by raising a worker's shift load.
	ref := domain.EntityRef{Collection: "workers", Position: 0}
	c.BeforeEntityChanged(s, ref)
	sol.Workers[0].Shift = 3
	c.AfterEntityChanged(s, ref)

	got := c.Total()
	want := c.Recompute(s)
	if !score.Equal(got, want) {
		t.Fatalf("Total() after change = %v, want %v (matches Recompute)", got, want)
	}
	if score.Equal(got, score.HardSoft(0, 0)) {
		t.Fatalf("expected the unbalanced roster to carry a nonzero penalty")
	}
}

func TestCountAndSumCollectors(t *testing.T) {
	count := CountCollector[int]{}
	c := count.Zero()
	for _, v := range []int{1, 2, 3} {
		c = count.Insert(c, v)
	}
	if c != 3 {
		t.Fatalf("CountCollector Insert x3 = %d, want 3", c)
	}
	c = count.Retract(c, 2)
	if c != 2 {
		t.Fatalf("CountCollector Retract = %d, want 2", c)
	}

	sum := SumCollector[float64]{Field: func(v float64) float64 { return v }}
	s := sum.Zero()
	for _, v := range []float64{1.5, 2.5} {
		s = sum.Insert(s, v)
	}
	if diff := cmp.Diff(4.0, s); diff != "" {
		t.Fatalf("SumCollector mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBalanceImbalanceOfEqualGroupIsZero(t *testing.T) {
	lb := LoadBalanceCollector[int]{Field: func(v int) float64 { return float64(v) }}
	stat := lb.Zero()
	for _, v := range []int{5, 5, 5} {
		stat = lb.Insert(stat, v)
	}
	if stat.Imbalance() != 0 {
		t.Fatalf("Imbalance() of identical values = %v, want 0", stat.Imbalance())
	}
}
