package move

import (
	"testing"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
)

func TestRuinAndRecreateReassignsEachRuinedRef(t *testing.T) {
	d, g, variable := newGridDirector()
	refs := []domain.EntityRef{
		{Collection: "cells", Position: 0},
		{Collection: "cells", Position: 1},
	}
	m := &RuinAndRecreate{
		Refs:       refs,
		Variable:   variable,
		Unassigned: -1,
		Recreate: func(_ *director.Director, ref domain.EntityRef) any {
			return ref.Position * 10
		},
	}

	if !m.IsDoable(d) {
		t.Fatal("IsDoable() = false with ruined refs present")
	}
	m.Apply(d)
	if g.Cells[0].Value != 0 || g.Cells[1].Value != 10 {
		t.Fatalf("after apply: Cells = %+v, want [0,10,...]", g.Cells)
	}
}

func TestRuinAndRecreateUndoRestoresOriginalValues(t *testing.T) {
	d, g, variable := newGridDirector()
	refs := []domain.EntityRef{
		{Collection: "cells", Position: 0},
		{Collection: "cells", Position: 2},
	}
	m := &RuinAndRecreate{
		Refs:       refs,
		Variable:   variable,
		Unassigned: -1,
		Recreate: func(_ *director.Director, ref domain.EntityRef) any {
			return 99
		},
	}
	m.Apply(d)
	Undo(d)
	if g.Cells[0].Value != 0 || g.Cells[2].Value != 2 {
		t.Fatalf("after undo: Cells = %+v, want [0,_,2]", g.Cells)
	}
}

func TestRuinAndRecreateNotDoableWithoutRefs(t *testing.T) {
	d, _, variable := newGridDirector()
	m := &RuinAndRecreate{Variable: variable, Recreate: func(_ *director.Director, _ domain.EntityRef) any { return 0 }}
	if m.IsDoable(d) {
		t.Fatal("IsDoable() = true with an empty Refs slice")
	}
}

func TestRuinAndRecreateSeesPartiallyRecreatedState(t *testing.T) {
	// Recreate for the second ruined ref should observe the first
	// ref's already-recreated value, since both unassignment passes
	// run before any recreation, and recreation itself runs in order.
	d, g, variable := newGridDirector()
	refs := []domain.EntityRef{
		{Collection: "cells", Position: 0},
		{Collection: "cells", Position: 1},
	}
	var sawDuringSecond int
	m := &RuinAndRecreate{
		Refs:       refs,
		Variable:   variable,
		Unassigned: -1,
		Recreate: func(_ *director.Director, ref domain.EntityRef) any {
			if ref.Position == 1 {
				sawDuringSecond = g.Cells[0].Value
			}
			return 5
		},
	}
	m.Apply(d)
	if sawDuringSecond != 5 {
		t.Fatalf("second Recreate saw Cells[0].Value = %d, want 5 (already recreated)", sawDuringSecond)
	}
}
