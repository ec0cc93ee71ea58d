package acceptor

import (
	"testing"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

type fakeMove struct {
	ref domain.EntityRef
}

func (fakeMove) IsDoable(*director.Director) bool { return true }
func (fakeMove) Apply(*director.Director)         {}

func (m fakeMove) AffectedEntities() []domain.EntityRef { return []domain.EntityRef{m.ref} }
func (fakeMove) VariableName() string                   { return "value" }

func TestTabuSearchRejectsRecentlyCommittedEntity(t *testing.T) {
	tb := &TabuSearch{Size: 2, Types: []TabuType{EntityTabu}, EntityKey: EntityRefKey}
	tb.PhaseStarted(nil, score.Simple(0))

	committed := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 0}}
	tb.RecordCommitted(committed)

	candidate := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 0}}
	if tb.Accept(candidate, score.Simple(-1), score.Simple(0)) {
		t.Fatal("accepted a candidate whose entity is currently tabu")
	}
}

func TestTabuSearchAspirationOverridesTabu(t *testing.T) {
	tb := &TabuSearch{Size: 2, Types: []TabuType{EntityTabu}, EntityKey: EntityRefKey}
	tb.PhaseStarted(nil, score.Simple(0))

	committed := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 0}}
	tb.RecordCommitted(committed)

	candidate := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 0}}
	if !tb.Accept(candidate, score.Simple(5), score.Simple(0)) {
		t.Fatal("tabu status was not overridden by a new global best (aspiration)")
	}
}

func TestTabuRingEvictsOldestBeyondSize(t *testing.T) {
	tb := &TabuSearch{Size: 1, Types: []TabuType{EntityTabu}, EntityKey: EntityRefKey}
	tb.PhaseStarted(nil, score.Simple(0))

	first := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 0}}
	second := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 1}}
	tb.RecordCommitted(first)
	tb.RecordCommitted(second) // evicts first, since Size=1

	if !tb.Accept(first, score.Simple(-1), score.Simple(0)) {
		t.Fatal("rejected a candidate whose entity was evicted from the tabu ring")
	}
	if tb.Accept(second, score.Simple(-1), score.Simple(0)) {
		t.Fatal("accepted a candidate whose entity is still in the tabu ring")
	}
}

func TestTabuSearchIgnoresInactiveTypes(t *testing.T) {
	tb := &TabuSearch{Size: 2, Types: []TabuType{MoveTabu}, EntityKey: EntityRefKey}
	tb.PhaseStarted(nil, score.Simple(0))

	committed := fakeMove{ref: domain.EntityRef{Collection: "cells", Position: 0}}
	tb.RecordCommitted(committed) // EntityKey set, but EntityTabu is not in Types

	if !tb.Accept(committed, score.Simple(-1), score.Simple(0)) {
		t.Fatal("rejected a candidate under an entity ring that was never activated")
	}
}
