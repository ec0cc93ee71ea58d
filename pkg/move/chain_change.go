package move

import (
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
)

// ChainChange relocates one chained-variable entity to sit immediately
// behind Target (an anchor fact or another chain entity's EntityRef),
// implementing spec.md §4.6's chained-variable analogue of "change":
// whichever entity used to point at Target is relinked to point at
// Ref instead, so Ref is spliced in after Target without forking or
// breaking the chain. IsDoable restricts Ref to entities with no
// current successor (chain tails), so relocating it never strands a
// downstream sub-chain behind.
type ChainChange struct {
	Ref      domain.EntityRef
	Variable *domain.VariableDescriptor // the chained ("previous") variable
	Chain    string                     // entity collection the chain lives in
	Target   any                        // an anchor fact, or another Chain entity's EntityRef
}

func (m *ChainChange) IsDoable(d *director.Director) bool {
	if tref, ok := m.Target.(domain.EntityRef); ok && tref == m.Ref {
		return false
	}
	entity := entityAt(d, m.Ref)
	if m.Variable.Get(entity) == m.Target {
		return false
	}
	// Only a current chain tail may relocate: a mover with its own
	// successor would carry a downstream sub-chain whose anchors would
	// all need recomputing too, which this core's shadow listeners
	// don't cascade through (domain.AnchorShadowListener only refreshes
	// the moved entity itself).
	_, hasOldNext := findPointingAt(d, m.Chain, m.Variable, m.Ref)
	return !hasOldNext
}

// findPointingAt scans Chain for the entity whose Variable value
// currently equals target, if any.
func findPointingAt(d *director.Director, chain string, variable *domain.VariableDescriptor, target any) (domain.EntityRef, bool) {
	n := d.Descriptor().CollectionLen(d.Solution(), chain)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: chain, Position: i}
		if variable.Get(entityAt(d, ref)) == target {
			return ref, true
		}
	}
	return domain.EntityRef{}, false
}

func (m *ChainChange) Apply(d *director.Director) {
	oldPrev := m.Variable.Get(entityAt(d, m.Ref))
	oldNextRef, hasOldNext := findPointingAt(d, m.Chain, m.Variable, m.Ref)
	newNextRef, hasNewNext := findPointingAt(d, m.Chain, m.Variable, m.Target)

	type link struct {
		ref domain.EntityRef
		old any
	}
	var links []link

	relink := func(ref domain.EntityRef, value any) {
		entity := entityAt(d, ref)
		old := m.Variable.Get(entity)
		d.BeforeVariableChanged(ref, m.Variable.Name)
		m.Variable.Set(entity, value)
		d.AfterVariableChanged(ref, m.Variable.Name)
		links = append(links, link{ref: ref, old: old})
	}

	if hasOldNext {
		relink(oldNextRef, oldPrev)
	}
	relink(m.Ref, m.Target)
	if hasNewNext {
		relink(newNextRef, m.Ref)
	}

	d.RegisterUndo(func() {
		for i := len(links) - 1; i >= 0; i-- {
			l := links[i]
			entity := entityAt(d, l.ref)
			d.BeforeVariableChanged(l.ref, m.Variable.Name)
			m.Variable.Set(entity, l.old)
			d.AfterVariableChanged(l.ref, m.Variable.Name)
		}
	})
}

func (m *ChainChange) AffectedEntities() []domain.EntityRef { return []domain.EntityRef{m.Ref} }
func (m *ChainChange) VariableName() string                 { return m.Variable.Name }
