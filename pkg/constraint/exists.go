package constraint

import (
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

// Exists is the incrementally maintained existential-guard evaluator
// produced by if_exists/if_not_exists: for every A-side tuple it
// counts the current joiner matches among B (countMatches, recomputed
// whenever that tuple or an affecting B tuple changes), and posts a
// contribution only for the A-refs whose count satisfies the guard
// (if_exists: count > 0; if_not_exists: count == 0). Unlike Bi, it
// never materializes the matching pairs themselves, and it stores
// only each passing A-ref's posted contribution, not the count.
type Exists[A, B any] struct {
	collA, collB string
	negate       bool
	projectA     func(domain.EntityRef, any) A
	projectB     func(domain.EntityRef, any) B
	filtersA     []func(A) bool
	joiner       Joiner[A, B]

	eligibleA map[domain.EntityRef]A
	eligibleB map[domain.EntityRef]B
	keyIndexA map[any]map[domain.EntityRef]bool
	keyIndexB map[any]map[domain.EntityRef]bool

	posted map[domain.EntityRef]score.Score

	impact   Impact
	weightFn func(A) score.Score
	zero     score.Score
	total    score.Score
}

func newExists[A, B any](source *Uni[A], other *Uni[B], joiner Joiner[A, B], negate bool) *Exists[A, B] {
	return &Exists[A, B]{
		collA:     source.collection,
		collB:     other.collection,
		negate:    negate,
		projectA:  source.project,
		projectB:  other.project,
		filtersA:  append([]func(A) bool(nil), source.filters...),
		joiner:    joiner,
		eligibleA: make(map[domain.EntityRef]A),
		eligibleB: make(map[domain.EntityRef]B),
		keyIndexA: make(map[any]map[domain.EntityRef]bool),
		keyIndexB: make(map[any]map[domain.EntityRef]bool),
		posted:    make(map[domain.EntityRef]score.Score),
	}
}

// IfExists keeps only A-side tuples with at least one current joiner
// match in other, implementing `if_exists(other, joiner)`.
func IfExists[A, B any](source *Uni[A], other *Uni[B], joiner Joiner[A, B]) *Exists[A, B] {
	return newExists(source, other, joiner, false)
}

// IfNotExists keeps only A-side tuples with no current joiner match in
// other, implementing `if_not_exists(other, joiner)`.
func IfNotExists[A, B any](source *Uni[A], other *Uni[B], joiner Joiner[A, B]) *Exists[A, B] {
	return newExists(source, other, joiner, true)
}

// Penalize closes the stream with a penalizing weight.
func (e *Exists[A, B]) Penalize(zero score.Score, weightFn func(A) score.Score) Constraint {
	e.impact, e.weightFn, e.zero = Penalize, weightFn, zero
	e.total = zero
	return e
}

// Reward closes the stream with a rewarding weight.
func (e *Exists[A, B]) Reward(zero score.Score, weightFn func(A) score.Score) Constraint {
	e.impact, e.weightFn, e.zero = Reward, weightFn, zero
	e.total = zero
	return e
}

func (e *Exists[A, B]) Name() string       { return "Exists(" + e.collA + "," + e.collB + ")" }
func (e *Exists[A, B]) Total() score.Score { return e.total }
func (e *Exists[A, B]) MatchCount() int    { return len(e.posted) }

func (e *Exists[A, B]) passesGuard(count int) bool {
	if e.negate {
		return count == 0
	}
	return count > 0
}

func (e *Exists[A, B]) eligibleAFor(s Scanner, ref domain.EntityRef) (A, bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	a := e.projectA(ref, raw)
	for _, f := range e.filtersA {
		if !f(a) {
			var zero A
			return zero, false
		}
	}
	return a, true
}

func (e *Exists[A, B]) eligibleBFor(s Scanner, ref domain.EntityRef) B {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	return e.projectB(ref, raw)
}

func (e *Exists[A, B]) addToEligibleA(ref domain.EntityRef, a A) {
	e.eligibleA[ref] = a
	if e.joiner.Kind == JoinEqual {
		k := e.joiner.KeyA(a)
		if e.keyIndexA[k] == nil {
			e.keyIndexA[k] = make(map[domain.EntityRef]bool)
		}
		e.keyIndexA[k][ref] = true
	}
}

func (e *Exists[A, B]) removeFromEligibleA(ref domain.EntityRef) {
	if a, ok := e.eligibleA[ref]; ok && e.joiner.Kind == JoinEqual {
		delete(e.keyIndexA[e.joiner.KeyA(a)], ref)
	}
	delete(e.eligibleA, ref)
}

func (e *Exists[A, B]) addToEligibleB(ref domain.EntityRef, b B) {
	e.eligibleB[ref] = b
	if e.joiner.Kind == JoinEqual {
		k := e.joiner.KeyB(b)
		if e.keyIndexB[k] == nil {
			e.keyIndexB[k] = make(map[domain.EntityRef]bool)
		}
		e.keyIndexB[k][ref] = true
	}
}

func (e *Exists[A, B]) removeFromEligibleB(ref domain.EntityRef) {
	if b, ok := e.eligibleB[ref]; ok && e.joiner.Kind == JoinEqual {
		delete(e.keyIndexB[e.joiner.KeyB(b)], ref)
	}
	delete(e.eligibleB, ref)
}

// countMatches scans B for a's current joiner matches: an indexed O(1)
// bucket lookup for an equal-key joiner, a full scan of the eligible B
// set otherwise (same tradeoff Joiner documents for Bi).
func (e *Exists[A, B]) countMatches(a A) int {
	if e.joiner.Kind == JoinEqual {
		return len(e.keyIndexB[e.joiner.KeyA(a)])
	}
	count := 0
	for _, b := range e.eligibleB {
		if e.joiner.matches(a, b) {
			count++
		}
	}
	return count
}

func (e *Exists[A, B]) applyGuard(ref domain.EntityRef, a A, count int) {
	passes := e.passesGuard(count)
	prev, hadPrev := e.posted[ref]
	if !passes {
		if hadPrev {
			e.total = e.total.Add(prev.Negate())
			delete(e.posted, ref)
		}
		return
	}
	contribution := e.impact.apply(e.weightFn(a))
	if hadPrev {
		e.total = e.total.Add(prev.Negate())
	}
	e.posted[ref] = contribution
	e.total = e.total.Add(contribution)
}

func (e *Exists[A, B]) retract(ref domain.EntityRef) {
	if c, ok := e.posted[ref]; ok {
		e.total = e.total.Add(c.Negate())
		delete(e.posted, ref)
	}
}

// recountAffectedByBKey reapplies the guard for every A-ref whose
// indexed key matches key, used when an equal-key joiner lets us
// narrow which A-refs a B-side change could affect.
func (e *Exists[A, B]) recountAffectedByBKey(key any) {
	for ref := range e.keyIndexA[key] {
		if a, ok := e.eligibleA[ref]; ok {
			e.applyGuard(ref, a, e.countMatches(a))
		}
	}
}

// recountAllA reapplies the guard for every A-ref, the fallback used
// when the joiner isn't an indexed equal-key join: a non-indexed B
// change could affect any A tuple, the same tradeoff Bi's unindexed
// join paths accept.
func (e *Exists[A, B]) recountAllA() {
	for ref, a := range e.eligibleA {
		e.applyGuard(ref, a, e.countMatches(a))
	}
}

func (e *Exists[A, B]) Initialize(s Scanner) {
	e.eligibleA = make(map[domain.EntityRef]A)
	e.eligibleB = make(map[domain.EntityRef]B)
	e.keyIndexA = make(map[any]map[domain.EntityRef]bool)
	e.keyIndexB = make(map[any]map[domain.EntityRef]bool)
	e.posted = make(map[domain.EntityRef]score.Score)
	e.total = e.zero

	nb := s.Descriptor().CollectionLen(s.Solution(), e.collB)
	for i := 0; i < nb; i++ {
		ref := domain.EntityRef{Collection: e.collB, Position: i}
		e.addToEligibleB(ref, e.eligibleBFor(s, ref))
	}

	na := s.Descriptor().CollectionLen(s.Solution(), e.collA)
	for i := 0; i < na; i++ {
		ref := domain.EntityRef{Collection: e.collA, Position: i}
		if a, ok := e.eligibleAFor(s, ref); ok {
			e.addToEligibleA(ref, a)
			e.applyGuard(ref, a, e.countMatches(a))
		}
	}
}

func (e *Exists[A, B]) BeforeEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection == e.collA {
		e.retract(ref)
		e.removeFromEligibleA(ref)
		return
	}
	if ref.Collection == e.collB {
		if b, ok := e.eligibleB[ref]; ok {
			if e.joiner.Kind == JoinEqual {
				e.removeFromEligibleB(ref)
				e.recountAffectedByBKey(e.joiner.KeyB(b))
			} else {
				e.removeFromEligibleB(ref)
				e.recountAllA()
			}
		}
	}
}

func (e *Exists[A, B]) AfterEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection == e.collB {
		b := e.eligibleBFor(s, ref)
		e.addToEligibleB(ref, b)
		if e.joiner.Kind == JoinEqual {
			e.recountAffectedByBKey(e.joiner.KeyB(b))
		} else {
			e.recountAllA()
		}
		return
	}
	if ref.Collection == e.collA {
		if a, ok := e.eligibleAFor(s, ref); ok {
			e.addToEligibleA(ref, a)
			e.applyGuard(ref, a, e.countMatches(a))
		}
	}
}

func (e *Exists[A, B]) Recompute(s Scanner) score.Score {
	total := e.zero
	nb := s.Descriptor().CollectionLen(s.Solution(), e.collB)
	eligB := make([]B, 0, nb)
	for i := 0; i < nb; i++ {
		ref := domain.EntityRef{Collection: e.collB, Position: i}
		eligB = append(eligB, e.eligibleBFor(s, ref))
	}
	na := s.Descriptor().CollectionLen(s.Solution(), e.collA)
	for i := 0; i < na; i++ {
		ref := domain.EntityRef{Collection: e.collA, Position: i}
		a, ok := e.eligibleAFor(s, ref)
		if !ok {
			continue
		}
		count := 0
		for _, b := range eligB {
			if e.joiner.matches(a, b) {
				count++
			}
		}
		if e.passesGuard(count) {
			total = total.Add(e.impact.apply(e.weightFn(a)))
		}
	}
	return total
}
