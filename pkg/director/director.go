// Package director implements spec.md §4.5: the stateful owner of the
// working solution. It fans variable-change notifications out to every
// registered constraint and to shadow-variable listeners in dependency
// order, maintains a LIFO undo log of inverse mutations, and performs
// the periodic full-recomputation corruption check spec.md §7
// describes.
//
// Grounded on the teacher's Store/ConstraintManager pair
// (store_ops.go, constraint_manager.go): a central mutable store that
// fans notifications out to registered constraints, generalized here
// from unification constraints to scored planning constraints.
package director

import (
	"errors"
	"fmt"

	"github.com/gitrdm/solverforge/pkg/constraint"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

// Sentinel errors matching spec.md §7's taxonomy.
var (
	ErrInvalidState    = errors.New("director: invalid state")
	ErrScoreCorruption = errors.New("director: score corruption detected")
)

// Director owns the working solution and the tuple of constraints.
type Director struct {
	descriptor  *domain.SolutionDescriptor
	solution    any
	constraints []constraint.Constraint
	listeners   *domain.ListenerGraph
	supplies    *domain.SupplyManager

	initialized bool
	total       score.Score

	undo []func()

	// RecomputeEvery, when > 0, triggers a full from-scratch score
	// recomputation every that many AfterVariableChanged calls; a
	// mismatch against the running total panics with
	// ErrScoreCorruption wrapped with the offending constraint name,
	// per spec.md §7 ("this is fatal; the solver aborts with the
	// offending constraint name and the discrepancy").
	RecomputeEvery int
	changeCount    int
}

// New builds a director over solution using descriptor and the given
// constraints. Shadow listeners, if any, must already be topologically
// ordered via domain.BuildListenerGraph.
func New(descriptor *domain.SolutionDescriptor, solution any, constraints []constraint.Constraint, listeners *domain.ListenerGraph) *Director {
	return &Director{
		descriptor:  descriptor,
		solution:    solution,
		constraints: constraints,
		listeners:   listeners,
		supplies:    domain.NewSupplyManager(),
		total:       score.Zero(descriptor.ScoreKind),
	}
}

// SetListeners installs the shadow-listener graph after construction,
// for the common case where the listeners themselves need the
// director's own SupplyManager (via Supplies) before the director
// exists yet.
func (d *Director) SetListeners(listeners *domain.ListenerGraph) {
	d.listeners = listeners
}

// Supplies returns the director's cached-derived-index manager, shared
// by every chained/list shadow listener this director drives.
func (d *Director) Supplies() *domain.SupplyManager {
	return d.supplies
}

// Solution implements constraint.Scanner.
func (d *Director) Solution() any { return d.solution }

// Descriptor implements constraint.Scanner.
func (d *Director) Descriptor() *domain.SolutionDescriptor { return d.descriptor }

// WorkingSolution returns direct read access to the working solution.
func (d *Director) WorkingSolution() any { return d.solution }

// WorkingSolutionMut returns direct mutable access, intended only for
// moves that bracket every mutation with Before/AfterVariableChanged
// and an undo record (spec.md §4.5).
func (d *Director) WorkingSolutionMut() any { return d.solution }

// CloneWorkingSolution produces a deep-copied snapshot, the
// best-so-far sink.
func (d *Director) CloneWorkingSolution() any {
	return d.descriptor.Clone(d.solution)
}

// CalculateScore performs a full initializing pass the first time it
// is called, and returns the running total on every subsequent call.
func (d *Director) CalculateScore() score.Score {
	if !d.initialized {
		for _, c := range d.constraints {
			c.Initialize(d)
		}
		d.total = d.sumTotals()
		d.initialized = true
	}
	return d.total
}

func (d *Director) sumTotals() score.Score {
	total := score.Zero(d.descriptor.ScoreKind)
	for _, c := range d.constraints {
		total = total.Add(c.Total())
	}
	return total
}

// BeforeVariableChanged must be called before mutating ref's variable
// directly. It retracts ref's current match contributions from every
// constraint.
func (d *Director) BeforeVariableChanged(ref domain.EntityRef, variable string) {
	if !d.initialized {
		panic(fmt.Errorf("%w: BeforeVariableChanged called before CalculateScore", ErrInvalidState))
	}
	for _, c := range d.constraints {
		c.BeforeEntityChanged(d, ref)
	}
}

// AfterVariableChanged must be called after mutating ref's variable. It
// recomputes ref's new matches, fans the notification to shadow
// listeners in dependency order (cascading to any listener whose
// source is another shadow this pass just recomputed), and updates the
// running total.
func (d *Director) AfterVariableChanged(ref domain.EntityRef, variable string) {
	if !d.initialized {
		panic(fmt.Errorf("%w: AfterVariableChanged called before CalculateScore", ErrInvalidState))
	}
	for _, c := range d.constraints {
		c.AfterEntityChanged(d, ref)
	}
	if d.isStructuralVariable(ref.Collection, variable) {
		d.supplies.Invalidate()
	}
	d.triggerShadows(ref, variable)
	d.total = d.sumTotals()

	d.changeCount++
	if d.RecomputeEvery > 0 && d.changeCount%d.RecomputeEvery == 0 {
		d.checkCorruption()
	}
}

// triggerShadows recomputes every shadow listener reachable, in
// dependency order, from the (entity, variable) pair that just
// changed — cascading to listeners whose source variable is a shadow
// this pass already recomputed, and issuing a synthetic
// Before/AfterEntityChanged pair to constraints for each recomputed
// shadow so filters over it see the new value (spec.md §4.5).
func (d *Director) triggerShadows(ref domain.EntityRef, variable string) {
	if d.listeners == nil {
		return
	}
	dirty := map[string]bool{ref.Collection + "." + variable: true}
	for _, l := range d.listeners.Ordered() {
		if l.SourceEntity() != ref.Collection {
			continue
		}
		if !dirty[l.SourceEntity()+"."+l.SourceVariable()] {
			continue
		}
		for _, c := range d.constraints {
			c.BeforeEntityChanged(d, ref)
		}
		l.AfterChange(domain.VariableNotification{
			Solution:  d.solution,
			Entity:    d.descriptor.EntityAt(d.solution, ref),
			EntityRef: ref,
			Variable:  l.SourceVariable(),
		})
		for _, c := range d.constraints {
			c.AfterEntityChanged(d, ref)
		}
		dirty[l.SourceEntity()+"."+l.ShadowVariable()] = true
	}
}

// isStructuralVariable reports whether variable is a chained or list
// kind on collection's entity descriptor: mutating either reshapes the
// chain/list structure every Supply in d.supplies is derived from.
func (d *Director) isStructuralVariable(collection, variable string) bool {
	ed := d.descriptor.EntityDescriptorFor(collection)
	if ed == nil {
		return false
	}
	for _, v := range ed.Variables {
		if v.Name == variable {
			return v.Kind == domain.VariableChained || v.Kind == domain.VariableList
		}
	}
	return false
}

func (d *Director) checkCorruption() {
	for _, c := range d.constraints {
		got := c.Recompute(d)
		if !score.Equal(got, c.Total()) {
			panic(fmt.Errorf("%w: constraint %q running total %s does not match recomputed %s",
				ErrScoreCorruption, c.Name(), c.Total(), got))
		}
	}
}

// RegisterUndo pushes an inverse mutation onto the LIFO undo log.
func (d *Director) RegisterUndo(inverse func()) {
	d.undo = append(d.undo, inverse)
}

// UndoChanges drains the undo log in reverse, applying each inverse.
// Popping an empty log is a programming error and panics (spec.md §7
// "Undo underflow ... the director panics").
func (d *Director) UndoChanges(n int) {
	if n > len(d.undo) {
		panic("director: undo underflow")
	}
	for i := 0; i < n; i++ {
		last := len(d.undo) - 1
		inverse := d.undo[last]
		d.undo = d.undo[:last]
		inverse()
	}
}

// UndoDepth reports how many inverse mutations are currently recorded,
// used by moves to know how many entries their own Apply pushed.
func (d *Director) UndoDepth() int { return len(d.undo) }

// AssertNotSolving is the one hook SPEC_FULL.md reserves for a future
// realtime problem-change layer (out of scope per spec.md §1); it is
// unimplemented and exists only so that hook's eventual shape does not
// require touching this type's exported surface.
func (d *Director) AssertNotSolving() {}
