package move

import (
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
)

// RuinAndRecreate unassigns a chosen subset of entities, then
// reassigns each from a per-entity recreate function, implementing
// spec.md §4.6's "ruin-and-recreate" move. Recreate is called once per
// ruined entity, in order, and sees the partially-recreated solution
// state, allowing greedy per-entity reconstruction.
type RuinAndRecreate struct {
	Refs      []domain.EntityRef
	Variable  *domain.VariableDescriptor
	Unassigned any
	Recreate  func(d *director.Director, ref domain.EntityRef) any
}

func (m *RuinAndRecreate) IsDoable(d *director.Director) bool {
	return len(m.Refs) > 0
}

func (m *RuinAndRecreate) Apply(d *director.Director) {
	olds := make([]any, len(m.Refs))
	for i, ref := range m.Refs {
		entity := entityAt(d, ref)
		olds[i] = m.Variable.Get(entity)
		d.BeforeVariableChanged(ref, m.Variable.Name)
		m.Variable.Set(entity, m.Unassigned)
		d.AfterVariableChanged(ref, m.Variable.Name)
	}
	for _, ref := range m.Refs {
		entity := entityAt(d, ref)
		newValue := m.Recreate(d, ref)
		d.BeforeVariableChanged(ref, m.Variable.Name)
		m.Variable.Set(entity, newValue)
		d.AfterVariableChanged(ref, m.Variable.Name)
	}
	d.RegisterUndo(func() {
		for i, ref := range m.Refs {
			entity := entityAt(d, ref)
			d.BeforeVariableChanged(ref, m.Variable.Name)
			m.Variable.Set(entity, olds[i])
			d.AfterVariableChanged(ref, m.Variable.Name)
		}
	})
}

func (m *RuinAndRecreate) AffectedEntities() []domain.EntityRef { return m.Refs }
func (m *RuinAndRecreate) VariableName() string                 { return m.Variable.Name }
