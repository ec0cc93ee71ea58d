package domain

import "fmt"

// InverseShadowListener recomputes a chained variable's "next" shadow:
// for entity E, the shadow value is the ref of whichever entity
// currently has E as its chain predecessor, or nil if E is the tail of
// its chain. It demands a whole-chain InverseVariableSupply from the
// director's SupplyManager, rebuilding it from scratch only when the
// director invalidated it (SupplyManager's documented tradeoff: not
// worth tracking per-link deltas at the problem sizes this core
// targets) rather than on every AfterChange call.
type InverseShadowListener struct {
	supplies   *SupplyManager
	descriptor *SolutionDescriptor
	entityName string
	chainVar   *VariableDescriptor
	shadowVar  *VariableDescriptor
	key        DemandKey
}

// NewInverseShadowListener builds a listener deriving shadowVar as the
// inverse of chainVar over entityName's collection.
func NewInverseShadowListener(supplies *SupplyManager, descriptor *SolutionDescriptor, entityName string, chainVar, shadowVar *VariableDescriptor) *InverseShadowListener {
	return &InverseShadowListener{
		supplies:   supplies,
		descriptor: descriptor,
		entityName: entityName,
		chainVar:   chainVar,
		shadowVar:  shadowVar,
		key:        DemandKey{Entity: entityName, Variable: chainVar.Name},
	}
}

func (l *InverseShadowListener) SourceEntity() string   { return l.entityName }
func (l *InverseShadowListener) SourceVariable() string { return l.chainVar.Name }
func (l *InverseShadowListener) ShadowVariable() string { return l.shadowVar.Name }

func (l *InverseShadowListener) buildSupply(solution any) Supply {
	inv := NewInverseVariableSupply()
	n := l.descriptor.CollectionLen(solution, l.entityName)
	for i := 0; i < n; i++ {
		ref := EntityRef{Collection: l.entityName, Position: i}
		entity := l.descriptor.EntityAt(solution, ref)
		inv.Set(l.chainVar.Get(entity), ref)
	}
	return inv
}

// AfterChange refreshes every entity's Next shadow, not just n.Entity's:
// relocating one chain member can change who points at an entirely
// different entity (the mover's old predecessor loses its pointer, the
// splice target gains one), and nothing in this core scores a "next"
// value directly, so there is no incremental bookkeeping to preserve
// by narrowing the write to n.EntityRef alone.
func (l *InverseShadowListener) AfterChange(n VariableNotification) {
	supply := l.supplies.Demand(l.key, func() Supply { return l.buildSupply(n.Solution) }).(*InverseVariableSupply)
	count := l.descriptor.CollectionLen(n.Solution, l.entityName)
	for i := 0; i < count; i++ {
		ref := EntityRef{Collection: l.entityName, Position: i}
		entity := l.descriptor.EntityAt(n.Solution, ref)
		if next, ok := supply.Get(ref); ok {
			l.shadowVar.Set(entity, next)
			continue
		}
		l.shadowVar.Set(entity, nil)
	}
}

// AnchorShadowListener recomputes a chained variable's "anchor"
// shadow: for entity E, the shadow value is the anchor fact at the
// root of E's chain, found by following predecessor links until
// isAnchor reports true. Like InverseShadowListener, it demands a
// whole-chain AnchorVariableSupply and rebuilds it only on
// invalidation, memoizing already-resolved refs within one rebuild so
// a chain of length n costs O(n) total rather than O(n^2).
type AnchorShadowListener struct {
	supplies   *SupplyManager
	descriptor *SolutionDescriptor
	entityName string
	chainVar   *VariableDescriptor
	shadowVar  *VariableDescriptor
	isAnchor   func(value any) bool
	key        DemandKey
}

// NewAnchorShadowListener builds a listener deriving shadowVar as the
// chain-root anchor reached by following chainVar's predecessor links.
// isAnchor must report true for every value chainVar can hold that
// isn't itself another entityName EntityRef.
func NewAnchorShadowListener(supplies *SupplyManager, descriptor *SolutionDescriptor, entityName string, chainVar, shadowVar *VariableDescriptor, isAnchor func(any) bool) *AnchorShadowListener {
	return &AnchorShadowListener{
		supplies:   supplies,
		descriptor: descriptor,
		entityName: entityName,
		chainVar:   chainVar,
		shadowVar:  shadowVar,
		isAnchor:   isAnchor,
		key:        DemandKey{Entity: entityName, Variable: chainVar.Name + ".anchor"},
	}
}

func (l *AnchorShadowListener) SourceEntity() string   { return l.entityName }
func (l *AnchorShadowListener) SourceVariable() string { return l.chainVar.Name }
func (l *AnchorShadowListener) ShadowVariable() string { return l.shadowVar.Name }

func (l *AnchorShadowListener) buildSupply(solution any) Supply {
	anc := NewAnchorVariableSupply()
	n := l.descriptor.CollectionLen(solution, l.entityName)
	resolved := make(map[EntityRef]any, n)

	var resolve func(ref EntityRef, visiting map[EntityRef]bool) any
	resolve = func(ref EntityRef, visiting map[EntityRef]bool) any {
		if a, ok := resolved[ref]; ok {
			return a
		}
		if visiting[ref] {
			panic(fmt.Errorf("%w: chain cycle detected at %s", ErrDomainModel, ref))
		}
		visiting[ref] = true
		entity := l.descriptor.EntityAt(solution, ref)
		prev := l.chainVar.Get(entity)
		var anchor any
		if l.isAnchor(prev) {
			anchor = prev
		} else {
			anchor = resolve(prev.(EntityRef), visiting)
		}
		resolved[ref] = anchor
		return anchor
	}

	for i := 0; i < n; i++ {
		ref := EntityRef{Collection: l.entityName, Position: i}
		anc.Set(ref, resolve(ref, make(map[EntityRef]bool)))
	}
	return anc
}

// AfterChange updates only n.Entity's Anchor shadow. Unlike Next, an
// entity's anchor only changes when its own predecessor link changes
// or one of its ancestors' does; relocating a chain member that still
// has a successor would also change every descendant's anchor, so
// move.ChainChange restricts movers to current chain tails (no
// successor) precisely so this single-entity update stays complete.
func (l *AnchorShadowListener) AfterChange(n VariableNotification) {
	supply := l.supplies.Demand(l.key, func() Supply { return l.buildSupply(n.Solution) }).(*AnchorVariableSupply)
	if anchor, ok := supply.Get(n.EntityRef); ok {
		l.shadowVar.Set(n.Entity, anchor)
	}
}

// CheckChainIntegrity verifies the universal chained-variable property
// spec.md §8 names: the chainVar links over entityName's collection
// must form a forest (no two entities share a predecessor — no forks)
// with no cycles (every predecessor chain reaches an anchor within the
// collection's own size).
func CheckChainIntegrity(descriptor *SolutionDescriptor, solution any, entityName string, chainVar *VariableDescriptor, isAnchor func(any) bool) error {
	n := descriptor.CollectionLen(solution, entityName)

	seenAsTarget := make(map[any]EntityRef, n)
	for i := 0; i < n; i++ {
		ref := EntityRef{Collection: entityName, Position: i}
		entity := descriptor.EntityAt(solution, ref)
		prev := chainVar.Get(entity)
		if other, ok := seenAsTarget[prev]; ok {
			return fmt.Errorf("%w: %s and %s both point at %v (chain fork)", ErrDomainModel, other, ref, prev)
		}
		seenAsTarget[prev] = ref
	}

	for i := 0; i < n; i++ {
		start := EntityRef{Collection: entityName, Position: i}
		cur := start
		for steps := 0; ; steps++ {
			if steps > n {
				return fmt.Errorf("%w: chain cycle detected starting at %s", ErrDomainModel, start)
			}
			entity := descriptor.EntityAt(solution, cur)
			prev := chainVar.Get(entity)
			if isAnchor(prev) {
				break
			}
			next, ok := prev.(EntityRef)
			if !ok {
				return fmt.Errorf("%w: %s has a non-anchor, non-entity predecessor %v", ErrDomainModel, cur, prev)
			}
			cur = next
		}
	}
	return nil
}
