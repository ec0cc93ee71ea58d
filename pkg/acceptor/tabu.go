package acceptor

import (
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/move"
	"github.com/gitrdm/solverforge/pkg/score"
)

// TabuType names one of the tabu-identity variants spec.md §4.8 lists
// (entity, move, value). OPEN QUESTIONS RESOLVED in SPEC_FULL.md treats
// these as configurable composition, not mutual exclusion: TabuSearch
// below checks every ring named in its Types slice on every candidate.
type TabuType int

const (
	EntityTabu TabuType = iota
	MoveTabu
	ValueTabu
)

// tabuRing is a fixed-size FIFO of recently forbidden identities.
type tabuRing struct {
	size  int
	items []any
}

func (r *tabuRing) push(item any) {
	r.items = append(r.items, item)
	if len(r.items) > r.size {
		r.items = r.items[1:]
	}
}

func (r *tabuRing) contains(item any) bool {
	for _, i := range r.items {
		if i == item {
			return true
		}
	}
	return false
}

// TabuSearch rejects a candidate whose affected identity (per active
// Types) is in the corresponding tabu ring, unless the candidate beats
// the global best score — aspiration — implementing spec.md §4.8's
// "Tabu search" row. EntityKey/MoveKey/ValueKey extract the comparable
// identity each ring type tracks; a nil extractor disables that ring
// even if listed in Types.
type TabuSearch struct {
	Size      int
	Types     []TabuType
	EntityKey func(move.Move) any
	MoveKey   func(move.Move) any
	ValueKey  func(move.Move) any

	entityRing, moveRing, valueRing tabuRing
}

func (t *TabuSearch) PhaseStarted(d *director.Director, initialScore score.Score) {
	t.entityRing = tabuRing{size: t.Size}
	t.moveRing = tabuRing{size: t.Size}
	t.valueRing = tabuRing{size: t.Size}
}
func (t *TabuSearch) PhaseEnded(d *director.Director)   {}
func (t *TabuSearch) StepStarted(d *director.Director) {}

func (t *TabuSearch) hasType(want TabuType) bool {
	for _, ty := range t.Types {
		if ty == want {
			return true
		}
	}
	return false
}

// StepEnded does nothing for TabuSearch: the committed move's
// identities are recorded by RecordCommitted instead.
func (t *TabuSearch) StepEnded(d *director.Director, stepScore score.Score) {}

// RecordCommitted pushes the just-committed move's identities onto the
// active rings. The generic StepEnded lifecycle hook only carries the
// resulting score, not the move, so the phase loop calls this
// explicitly right after committing.
func (t *TabuSearch) RecordCommitted(m move.Move) {
	if t.hasType(EntityTabu) && t.EntityKey != nil {
		t.entityRing.push(t.EntityKey(m))
	}
	if t.hasType(MoveTabu) && t.MoveKey != nil {
		t.moveRing.push(t.MoveKey(m))
	}
	if t.hasType(ValueTabu) && t.ValueKey != nil {
		t.valueRing.push(t.ValueKey(m))
	}
}

func (t *TabuSearch) isTabu(m move.Move) bool {
	if t.hasType(EntityTabu) && t.EntityKey != nil && t.entityRing.contains(t.EntityKey(m)) {
		return true
	}
	if t.hasType(MoveTabu) && t.MoveKey != nil && t.moveRing.contains(t.MoveKey(m)) {
		return true
	}
	if t.hasType(ValueTabu) && t.ValueKey != nil && t.valueRing.contains(t.ValueKey(m)) {
		return true
	}
	return false
}

func (t *TabuSearch) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	if moveScore.CompareTo(bestScore) > 0 {
		// Aspiration: a new global best always overrides tabu status.
		return true
	}
	return !t.isTabu(m)
}

// entityRefKey is a convenience EntityKey/MoveKey implementation for
// moves whose tabu identity is simply their first affected entity
// reference plus the variable name.
func entityRefKey(m move.Move) any {
	refs := m.AffectedEntities()
	if len(refs) == 0 {
		return domain.EntityRef{}
	}
	return struct {
		Ref domain.EntityRef
		Var string
	}{refs[0], m.VariableName()}
}

// EntityRefKey exposes entityRefKey for callers wiring up TabuSearch.
var EntityRefKey = entityRefKey
