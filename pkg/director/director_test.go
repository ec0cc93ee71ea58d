package director

import (
	"reflect"
	"testing"

	"github.com/gitrdm/solverforge/pkg/constraint"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

type queenEntity struct {
	Row int
}

type board struct {
	Queens []queenEntity
}

func newBoardDescriptor() *domain.SolutionDescriptor {
	sd := domain.NewSolutionDescriptor(score.KindSimple)
	sd.AddValueRange("row", domain.IntegerRange{From: 0, To: 4})
	sd.AddEntity(&domain.EntityDescriptor{
		Name: "queens",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*board).Queens)
		},
		Variables: []*domain.VariableDescriptor{
			domain.Genuine("row", "row",
				func(e any) any { return e.(*queenEntity).Row },
				func(e any, v any) { e.(*queenEntity).Row = v.(int) },
			),
		},
	})
	return sd
}

func sameRowConstraint() constraint.Constraint {
	self := constraint.JoinSelf[int](
		constraint.ForEach[int]("queens", func(_ domain.EntityRef, raw any) int {
			return raw.(*queenEntity).Row
		}),
		constraint.Filtering(func(a, b int) bool { return a == b }),
	)
	return constraint.AsConstraint("same_row", self.Penalize(score.Simple(0), func(_, _ int) score.Score {
		return score.Simple(1)
	}))
}

func newTestBoard() (*Director, *board) {
	b := &board{Queens: []queenEntity{{Row: 0}, {Row: 1}, {Row: 2}}}
	sd := newBoardDescriptor()
	d := New(sd, b, []constraint.Constraint{sameRowConstraint()}, nil)
	return d, b
}

func TestCalculateScoreInitializesOnce(t *testing.T) {
	d, _ := newTestBoard()
	first := d.CalculateScore()
	if !score.Equal(first, score.Simple(0)) {
		t.Fatalf("CalculateScore() = %v, want 0 (no row clashes)", first)
	}
	second := d.CalculateScore()
	if !score.Equal(first, second) {
		t.Fatalf("CalculateScore() second call = %v, want %v", second, first)
	}
}

func TestVariableChangeUpdatesRunningTotal(t *testing.T) {
	d, b := newTestBoard()
	d.CalculateScore()

	ref := domain.EntityRef{Collection: "queens", Position: 1}
	d.BeforeVariableChanged(ref, "row")
	b.Queens[1].Row = 0 // now clashes with queen 0
	d.AfterVariableChanged(ref, "row")

	got := d.CalculateScore()
	if !score.Equal(got, score.Simple(-1)) {
		t.Fatalf("CalculateScore() after clash = %v, want -1", got)
	}
}

func TestUndoChangesRestoresPriorTotal(t *testing.T) {
	d, b := newTestBoard()
	d.CalculateScore()

	ref := domain.EntityRef{Collection: "queens", Position: 1}
	before := b.Queens[1].Row
	d.BeforeVariableChanged(ref, "row")
	b.Queens[1].Row = 0
	d.RegisterUndo(func() { b.Queens[1].Row = before })
	d.AfterVariableChanged(ref, "row")

	depth := d.UndoDepth()
	d.UndoChanges(depth)

	if b.Queens[1].Row != before {
		t.Fatalf("UndoChanges did not restore Row: got %d, want %d", b.Queens[1].Row, before)
	}
}

func TestUndoUnderflowPanics(t *testing.T) {
	d, _ := newTestBoard()
	d.CalculateScore()

	defer func() {
		if recover() == nil {
			t.Fatal("UndoChanges beyond the log depth did not panic")
		}
	}()
	d.UndoChanges(1)
}

func TestBeforeVariableChangedBeforeCalculateScorePanics(t *testing.T) {
	d, _ := newTestBoard()

	defer func() {
		if recover() == nil {
			t.Fatal("BeforeVariableChanged before CalculateScore did not panic")
		}
	}()
	d.BeforeVariableChanged(domain.EntityRef{Collection: "queens", Position: 0}, "row")
}

func TestRecomputeEveryDetectsCorruption(t *testing.T) {
	d, b := newTestBoard()
	d.RecomputeEvery = 1
	d.CalculateScore()

	// Mutate the variable without the Before/After bracket, so the
	// running total silently drifts from the true state.
	b.Queens[1].Row = 0
	ref := domain.EntityRef{Collection: "queens", Position: 2}

	defer func() {
		if recover() == nil {
			t.Fatal("unbracketed mutation did not trip the corruption check")
		}
	}()
	d.AfterVariableChanged(ref, "row")
}
