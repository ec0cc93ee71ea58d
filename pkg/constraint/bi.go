package constraint

import "github.com/gitrdm/solverforge/pkg/domain"
import "github.com/gitrdm/solverforge/pkg/score"

// biKey identifies a match tuple of a Bi constraint. For a self-join,
// A is always the Less-ordered ref and B the greater, enforcing the
// "strictly increasing index order" normalization of spec.md §4.4 so
// each unordered pair is counted exactly once.
type biKey struct {
	A, B domain.EntityRef
}

type biMatch[A, B any] struct {
	a, b         interface{}
	contribution score.Score
}

// Bi is a monomorphized arity-2 constraint stream/evaluator produced
// by `join` or `join_self`.
type Bi[A, B any] struct {
	collA, collB string
	selfJoin     bool
	projectA     func(domain.EntityRef, any) A
	projectB     func(domain.EntityRef, any) B
	filtersA     []func(A) bool
	filtersB     []func(B) bool
	joiner       Joiner[A, B]
	postFilters  []func(A, B) bool

	impact   Impact
	weightFn func(A, B) score.Score
	zero     score.Score

	eligibleA map[domain.EntityRef]A
	eligibleB map[domain.EntityRef]B
	keyIndexA map[any]map[domain.EntityRef]bool
	keyIndexB map[any]map[domain.EntityRef]bool

	matches  map[biKey]biMatch[A, B]
	postingA map[domain.EntityRef]map[biKey]bool
	postingB map[domain.EntityRef]map[biKey]bool
	total    score.Score
}

// Join pairs every eligible tuple of left with every eligible tuple
// of right whose joiner matches, implementing `join(other, joiner)`.
func Join[A, B any](left *Uni[A], right *Uni[B], joiner Joiner[A, B]) *Bi[A, B] {
	return &Bi[A, B]{
		collA:     left.collection,
		collB:     right.collection,
		projectA:  left.project,
		projectB:  right.project,
		filtersA:  append([]func(A) bool(nil), left.filters...),
		filtersB:  append([]func(B) bool(nil), right.filters...),
		joiner:    joiner,
		eligibleA: make(map[domain.EntityRef]A),
		eligibleB: make(map[domain.EntityRef]B),
		keyIndexA: make(map[any]map[domain.EntityRef]bool),
		keyIndexB: make(map[any]map[domain.EntityRef]bool),
		matches:   make(map[biKey]biMatch[A, B]),
		postingA:  make(map[domain.EntityRef]map[biKey]bool),
		postingB:  make(map[domain.EntityRef]map[biKey]bool),
	}
}

// JoinSelf self-joins source on distinct indices (i < j), implementing
// `join_self(joiner)`.
func JoinSelf[A any](source *Uni[A], joiner Joiner[A, A]) *Bi[A, A] {
	b := Join[A, A](source, source, joiner)
	b.selfJoin = true
	return b
}

// Filter drops post-join tuples failing pred, implementing the
// arity-2 `filter(pred)` overload.
func (b *Bi[A, B]) Filter(pred func(A, B) bool) *Bi[A, B] {
	b.postFilters = append(b.postFilters, pred)
	return b
}

func (b *Bi[A, B]) passesPostFilters(a A, bb B) bool {
	for _, f := range b.postFilters {
		if !f(a, bb) {
			return false
		}
	}
	return true
}

func (b *Bi[A, B]) Penalize(zero score.Score, weightFn func(A, B) score.Score) Constraint {
	b.impact, b.weightFn, b.zero = Penalize, weightFn, zero
	b.total = zero
	return b
}

func (b *Bi[A, B]) Reward(zero score.Score, weightFn func(A, B) score.Score) Constraint {
	b.impact, b.weightFn, b.zero = Reward, weightFn, zero
	b.total = zero
	return b
}

func (b *Bi[A, B]) Name() string { return "Bi(" + b.collA + "," + b.collB + ")" }
func (b *Bi[A, B]) Total() score.Score { return b.total }
func (b *Bi[A, B]) MatchCount() int    { return len(b.matches) }

func (b *Bi[A, B]) eligibleAFor(s Scanner, ref domain.EntityRef) (A, bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	a := b.projectA(ref, raw)
	for _, f := range b.filtersA {
		if !f(a) {
			var zero A
			return zero, false
		}
	}
	return a, true
}

func (b *Bi[A, B]) eligibleBFor(s Scanner, ref domain.EntityRef) (B, bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	bv := b.projectB(ref, raw)
	for _, f := range b.filtersB {
		if !f(bv) {
			var zero B
			return zero, false
		}
	}
	return bv, true
}

func (b *Bi[A, B]) insert(refA, refB domain.EntityRef, a A, bv B) {
	key := biKey{A: refA, B: refB}
	contribution := b.impact.apply(b.weightFn(a, bv))
	b.matches[key] = biMatch[A, B]{a: a, b: bv, contribution: contribution}
	if b.postingA[refA] == nil {
		b.postingA[refA] = make(map[biKey]bool)
	}
	b.postingA[refA][key] = true
	if b.postingB[refB] == nil {
		b.postingB[refB] = make(map[biKey]bool)
	}
	b.postingB[refB][key] = true
	b.total = b.total.Add(contribution)
}

func (b *Bi[A, B]) removeMatch(key biKey) {
	m, ok := b.matches[key]
	if !ok {
		return
	}
	b.total = b.total.Add(m.contribution.Negate())
	delete(b.matches, key)
	delete(b.postingA[key.A], key)
	delete(b.postingB[key.B], key)
}

func (b *Bi[A, B]) indexKeyA(a A) any {
	if b.joiner.Kind == JoinEqual {
		return b.joiner.KeyA(a)
	}
	return nil
}

func (b *Bi[A, B]) indexKeyB(bv B) any {
	if b.joiner.Kind == JoinEqual {
		return b.joiner.KeyB(bv)
	}
	return nil
}

func (b *Bi[A, B]) addToEligibleA(ref domain.EntityRef, a A) {
	b.eligibleA[ref] = a
	if b.joiner.Kind == JoinEqual {
		k := b.indexKeyA(a)
		if b.keyIndexA[k] == nil {
			b.keyIndexA[k] = make(map[domain.EntityRef]bool)
		}
		b.keyIndexA[k][ref] = true
	}
}

func (b *Bi[A, B]) addToEligibleB(ref domain.EntityRef, bv B) {
	b.eligibleB[ref] = bv
	if b.joiner.Kind == JoinEqual {
		k := b.indexKeyB(bv)
		if b.keyIndexB[k] == nil {
			b.keyIndexB[k] = make(map[domain.EntityRef]bool)
		}
		b.keyIndexB[k][ref] = true
	}
}

func (b *Bi[A, B]) removeFromEligibleA(ref domain.EntityRef) {
	if a, ok := b.eligibleA[ref]; ok && b.joiner.Kind == JoinEqual {
		k := b.indexKeyA(a)
		delete(b.keyIndexA[k], ref)
	}
	delete(b.eligibleA, ref)
}

func (b *Bi[A, B]) removeFromEligibleB(ref domain.EntityRef) {
	if bv, ok := b.eligibleB[ref]; ok && b.joiner.Kind == JoinEqual {
		k := b.indexKeyB(bv)
		delete(b.keyIndexB[k], ref)
	}
	delete(b.eligibleB, ref)
}

// candidatePartnersForA returns the B-side refs that could join with
// a newly eligible A-side entity: the equal-key index bucket for
// indexed joiners, or the whole eligible B set otherwise.
func (b *Bi[A, B]) candidatePartnersForA(a A) map[domain.EntityRef]bool {
	if b.joiner.Kind == JoinEqual {
		return b.keyIndexB[b.indexKeyA(a)]
	}
	out := make(map[domain.EntityRef]bool, len(b.eligibleB))
	for ref := range b.eligibleB {
		out[ref] = true
	}
	return out
}

func (b *Bi[A, B]) candidatePartnersForB(bv B) map[domain.EntityRef]bool {
	if b.joiner.Kind == JoinEqual {
		return b.keyIndexA[b.indexKeyB(bv)]
	}
	out := make(map[domain.EntityRef]bool, len(b.eligibleA))
	for ref := range b.eligibleA {
		out[ref] = true
	}
	return out
}

func (b *Bi[A, B]) Initialize(s Scanner) {
	b.eligibleA = make(map[domain.EntityRef]A)
	b.eligibleB = make(map[domain.EntityRef]B)
	b.keyIndexA = make(map[any]map[domain.EntityRef]bool)
	b.keyIndexB = make(map[any]map[domain.EntityRef]bool)
	b.matches = make(map[biKey]biMatch[A, B])
	b.postingA = make(map[domain.EntityRef]map[biKey]bool)
	b.postingB = make(map[domain.EntityRef]map[biKey]bool)
	b.total = b.zero

	na := s.Descriptor().CollectionLen(s.Solution(), b.collA)
	for i := 0; i < na; i++ {
		ref := domain.EntityRef{Collection: b.collA, Position: i}
		if a, ok := b.eligibleAFor(s, ref); ok {
			b.addToEligibleA(ref, a)
		}
	}
	if b.selfJoin {
		b.eligibleB = any(b.eligibleA).(map[domain.EntityRef]B)
		b.keyIndexB = b.keyIndexA
	} else {
		nb := s.Descriptor().CollectionLen(s.Solution(), b.collB)
		for i := 0; i < nb; i++ {
			ref := domain.EntityRef{Collection: b.collB, Position: i}
			if bv, ok := b.eligibleBFor(s, ref); ok {
				b.addToEligibleB(ref, bv)
			}
		}
	}

	if b.selfJoin {
		for refA, a := range b.eligibleA {
			for refB, bv := range b.eligibleB {
				if !refA.Less(refB) {
					continue
				}
				if b.joiner.matches(a, bv) && b.passesPostFilters(a, bv) {
					b.insert(refA, refB, a, bv)
				}
			}
		}
		return
	}
	for refA, a := range b.eligibleA {
		for refB, bv := range b.eligibleB {
			if b.joiner.matches(a, bv) && b.passesPostFilters(a, bv) {
				b.insert(refA, refB, a, bv)
			}
		}
	}
}

func (b *Bi[A, B]) BeforeEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection == b.collA {
		for key := range b.postingA[ref] {
			b.removeMatch(key)
		}
		b.removeFromEligibleA(ref)
	}
	if !b.selfJoin && ref.Collection == b.collB {
		for key := range b.postingB[ref] {
			b.removeMatch(key)
		}
		b.removeFromEligibleB(ref)
	} else if b.selfJoin && ref.Collection == b.collA {
		for key := range b.postingB[ref] {
			b.removeMatch(key)
		}
		b.removeFromEligibleB(ref)
	}
}

func (b *Bi[A, B]) AfterEntityChanged(s Scanner, ref domain.EntityRef) {
	if b.selfJoin {
		b.afterSelfJoinChanged(s, ref)
		return
	}

	isA := ref.Collection == b.collA
	isB := ref.Collection == b.collB
	if !isA && !isB {
		return
	}

	if isA {
		if a, ok := b.eligibleAFor(s, ref); ok {
			b.addToEligibleA(ref, a)
			for partner := range b.candidatePartnersForA(a) {
				bv, ok := b.eligibleB[partner]
				if !ok {
					continue
				}
				if b.joiner.matches(a, bv) && b.passesPostFilters(a, bv) {
					b.insert(ref, partner, a, bv)
				}
			}
		}
		return
	}
	if bv, ok := b.eligibleBFor(s, ref); ok {
		b.addToEligibleB(ref, bv)
		for partner := range b.candidatePartnersForB(bv) {
			a, ok := b.eligibleA[partner]
			if !ok {
				continue
			}
			if b.joiner.matches(a, bv) && b.passesPostFilters(a, bv) {
				b.insert(partner, ref, a, bv)
			}
		}
	}
}

// afterSelfJoinChanged is the single-pass delta recomputation for a
// join_self constraint: ref is paired against every other currently
// eligible entity exactly once, each pair normalized to
// (Less-ordered, greater-ordered) by order() before insertion. Doing
// this from one side only (as opposed to mirroring the cross-join
// A-role/B-role handling) is what keeps each pair from being inserted
// — and double-counted in Total — twice.
func (b *Bi[A, B]) afterSelfJoinChanged(s Scanner, ref domain.EntityRef) {
	a, ok := b.eligibleAFor(s, ref)
	if !ok {
		return
	}
	b.addToEligibleA(ref, a)

	for partner := range b.candidatePartnersForA(a) {
		if partner == ref {
			continue
		}
		pa, ok := b.eligibleA[partner]
		if !ok {
			continue
		}
		pb := any(pa).(B)
		refA, refB, va, vb := b.order(ref, partner, a, pb)
		if b.joiner.matches(va, vb) && b.passesPostFilters(va, vb) {
			b.insert(refA, refB, va, vb)
		}
	}
}

// order enforces the self-join "strictly increasing index" rule: the
// Less-ordered ref always takes the A role.
func (b *Bi[A, B]) order(refX, refY domain.EntityRef, x A, y B) (domain.EntityRef, domain.EntityRef, A, B) {
	if !b.selfJoin {
		return refX, refY, x, y
	}
	if refX.Less(refY) {
		return refX, refY, x, y
	}
	// Self-join: A and B are the same type parameter, so this swap is
	// type-safe; y (declared type B) is in fact an A value here.
	return refY, refX, any(y).(A), any(x).(B)
}

func (b *Bi[A, B]) Recompute(s Scanner) score.Score {
	total := b.zero
	na := s.Descriptor().CollectionLen(s.Solution(), b.collA)
	eligA := make(map[domain.EntityRef]A, na)
	for i := 0; i < na; i++ {
		ref := domain.EntityRef{Collection: b.collA, Position: i}
		if a, ok := b.eligibleAFor(s, ref); ok {
			eligA[ref] = a
		}
	}
	var eligB map[domain.EntityRef]B
	if b.selfJoin {
		eligB = any(eligA).(map[domain.EntityRef]B)
	} else {
		eligB = make(map[domain.EntityRef]B)
		nb := s.Descriptor().CollectionLen(s.Solution(), b.collB)
		for i := 0; i < nb; i++ {
			ref := domain.EntityRef{Collection: b.collB, Position: i}
			if bv, ok := b.eligibleBFor(s, ref); ok {
				eligB[ref] = bv
			}
		}
	}
	for refA, a := range eligA {
		for refB, bv := range eligB {
			if b.selfJoin && !refA.Less(refB) {
				continue
			}
			if b.joiner.matches(a, bv) && b.passesPostFilters(a, bv) {
				total = total.Add(b.impact.apply(b.weightFn(a, bv)))
			}
		}
	}
	return total
}
