package move

import (
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
)

// Move is a reversible mutation of one or more planning variables.
// IsDoable reports false when applying it would be a no-op or violate
// a documented precondition. Apply mutates the working solution through
// the director, bracketing every field write with
// Before/AfterVariableChanged and registering exactly one inverse with
// the director's undo log; Undo (the package-level function below)
// drains that single entry.
type Move interface {
	IsDoable(d *director.Director) bool
	Apply(d *director.Director)

	// AffectedEntities and VariableName support tabu and selector
	// bookkeeping (spec.md §4.6).
	AffectedEntities() []domain.EntityRef
	VariableName() string
}

// Undo reverses the most recently applied move. Every Move.Apply in
// this package pushes exactly one inverse closure, so undoing one move
// is always UndoChanges(1).
func Undo(d *director.Director) {
	d.UndoChanges(1)
}

func entityAt(d *director.Director, ref domain.EntityRef) any {
	return d.Descriptor().EntityAt(d.Solution(), ref)
}

// Change reassigns one basic planning variable of one entity to a new
// value, implementing spec.md §4.6's "change" move.
type Change struct {
	Ref      domain.EntityRef
	Variable *domain.VariableDescriptor
	NewValue any
}

func (m *Change) IsDoable(d *director.Director) bool {
	entity := entityAt(d, m.Ref)
	return m.Variable.Get(entity) != m.NewValue
}

func (m *Change) Apply(d *director.Director) {
	entity := entityAt(d, m.Ref)
	old := m.Variable.Get(entity)
	d.BeforeVariableChanged(m.Ref, m.Variable.Name)
	m.Variable.Set(entity, m.NewValue)
	d.AfterVariableChanged(m.Ref, m.Variable.Name)
	d.RegisterUndo(func() {
		d.BeforeVariableChanged(m.Ref, m.Variable.Name)
		m.Variable.Set(entity, old)
		d.AfterVariableChanged(m.Ref, m.Variable.Name)
	})
}

func (m *Change) AffectedEntities() []domain.EntityRef { return []domain.EntityRef{m.Ref} }
func (m *Change) VariableName() string                 { return m.Variable.Name }

// Swap exchanges two entities' values of the same variable,
// implementing spec.md §4.6's "swap" move.
type Swap struct {
	RefA, RefB domain.EntityRef
	Variable   *domain.VariableDescriptor
}

func (m *Swap) IsDoable(d *director.Director) bool {
	if m.RefA == m.RefB {
		return false
	}
	a, b := entityAt(d, m.RefA), entityAt(d, m.RefB)
	return m.Variable.Get(a) != m.Variable.Get(b)
}

func (m *Swap) Apply(d *director.Director) {
	a, b := entityAt(d, m.RefA), entityAt(d, m.RefB)
	oldA, oldB := m.Variable.Get(a), m.Variable.Get(b)

	d.BeforeVariableChanged(m.RefA, m.Variable.Name)
	d.BeforeVariableChanged(m.RefB, m.Variable.Name)
	m.Variable.Set(a, oldB)
	m.Variable.Set(b, oldA)
	d.AfterVariableChanged(m.RefA, m.Variable.Name)
	d.AfterVariableChanged(m.RefB, m.Variable.Name)

	d.RegisterUndo(func() {
		d.BeforeVariableChanged(m.RefA, m.Variable.Name)
		d.BeforeVariableChanged(m.RefB, m.Variable.Name)
		m.Variable.Set(a, oldA)
		m.Variable.Set(b, oldB)
		d.AfterVariableChanged(m.RefA, m.Variable.Name)
		d.AfterVariableChanged(m.RefB, m.Variable.Name)
	})
}

func (m *Swap) AffectedEntities() []domain.EntityRef {
	return []domain.EntityRef{m.RefA, m.RefB}
}
func (m *Swap) VariableName() string { return m.Variable.Name }

// PillarChange applies the same value change coherently across a
// pillar — a set of entities that currently share one value of
// Variable — implementing spec.md §4.6's "pillar-change" move.
type PillarChange struct {
	Pillar   []domain.EntityRef
	Variable *domain.VariableDescriptor
	NewValue any
}

func (m *PillarChange) IsDoable(d *director.Director) bool {
	if len(m.Pillar) == 0 {
		return false
	}
	entity := entityAt(d, m.Pillar[0])
	return m.Variable.Get(entity) != m.NewValue
}

func (m *PillarChange) Apply(d *director.Director) {
	olds := make([]any, len(m.Pillar))
	for i, ref := range m.Pillar {
		entity := entityAt(d, ref)
		olds[i] = m.Variable.Get(entity)
		d.BeforeVariableChanged(ref, m.Variable.Name)
		m.Variable.Set(entity, m.NewValue)
		d.AfterVariableChanged(ref, m.Variable.Name)
	}
	d.RegisterUndo(func() {
		for i, ref := range m.Pillar {
			entity := entityAt(d, ref)
			d.BeforeVariableChanged(ref, m.Variable.Name)
			m.Variable.Set(entity, olds[i])
			d.AfterVariableChanged(ref, m.Variable.Name)
		}
	})
}

func (m *PillarChange) AffectedEntities() []domain.EntityRef { return m.Pillar }
func (m *PillarChange) VariableName() string                 { return m.Variable.Name }

// PillarSwap exchanges Variable's shared value between two pillars,
// implementing spec.md §4.6's "pillar-swap" move.
type PillarSwap struct {
	PillarA, PillarB []domain.EntityRef
	Variable         *domain.VariableDescriptor
}

func (m *PillarSwap) IsDoable(d *director.Director) bool {
	if len(m.PillarA) == 0 || len(m.PillarB) == 0 {
		return false
	}
	a, b := entityAt(d, m.PillarA[0]), entityAt(d, m.PillarB[0])
	return m.Variable.Get(a) != m.Variable.Get(b)
}

func (m *PillarSwap) Apply(d *director.Director) {
	a0 := entityAt(d, m.PillarA[0])
	b0 := entityAt(d, m.PillarB[0])
	valA, valB := m.Variable.Get(a0), m.Variable.Get(b0)

	apply := func(refs []domain.EntityRef, value any) {
		for _, ref := range refs {
			entity := entityAt(d, ref)
			d.BeforeVariableChanged(ref, m.Variable.Name)
			m.Variable.Set(entity, value)
			d.AfterVariableChanged(ref, m.Variable.Name)
		}
	}
	apply(m.PillarA, valB)
	apply(m.PillarB, valA)

	d.RegisterUndo(func() {
		apply(m.PillarA, valA)
		apply(m.PillarB, valB)
	})
}

func (m *PillarSwap) AffectedEntities() []domain.EntityRef {
	return append(append([]domain.EntityRef{}, m.PillarA...), m.PillarB...)
}
func (m *PillarSwap) VariableName() string { return m.Variable.Name }

// Composite applies an ordered sequence of moves atomically,
// implementing spec.md §4.6's "composite" move. Sub-moves are applied
// in order and their inverses run in reverse order inside one combined
// undo entry, so a composite counts as a single move for Undo.
type Composite struct {
	Moves []Move
}

func (m *Composite) IsDoable(d *director.Director) bool {
	for _, sub := range m.Moves {
		if !sub.IsDoable(d) {
			return false
		}
	}
	return len(m.Moves) > 0
}

func (m *Composite) Apply(d *director.Director) {
	depthBefore := d.UndoDepth()
	for _, sub := range m.Moves {
		sub.Apply(d)
	}
	pushed := d.UndoDepth() - depthBefore
	// One more entry on top of the pushed sub-move inverses: undoing
	// it pops itself, then recurses to pop exactly those sub-move
	// inverses in their own LIFO order, so a composite still counts
	// as exactly one entry from outside this package.
	d.RegisterUndo(func() { d.UndoChanges(pushed) })
}

func (m *Composite) AffectedEntities() []domain.EntityRef {
	var out []domain.EntityRef
	for _, sub := range m.Moves {
		out = append(out, sub.AffectedEntities()...)
	}
	return out
}

func (m *Composite) VariableName() string {
	if len(m.Moves) == 0 {
		return ""
	}
	return m.Moves[0].VariableName()
}

// Either tries Primary; if it is not doable, falls back to Fallback.
// Carried from the original Rust implementation's EitherMove
// combinator (SPEC_FULL.md "Supplemented features").
type Either struct {
	Primary, Fallback Move
}

func (m *Either) active(d *director.Director) Move {
	if m.Primary.IsDoable(d) {
		return m.Primary
	}
	return m.Fallback
}

func (m *Either) IsDoable(d *director.Director) bool {
	return m.Primary.IsDoable(d) || m.Fallback.IsDoable(d)
}

func (m *Either) Apply(d *director.Director) { m.active(d).Apply(d) }

func (m *Either) AffectedEntities() []domain.EntityRef { return nil }
func (m *Either) VariableName() string                 { return "" }
