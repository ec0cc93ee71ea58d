package constraint

import "github.com/gitrdm/solverforge/pkg/domain"
import "github.com/gitrdm/solverforge/pkg/score"

// uniMatch is the match-set entry for a single-entity (arity-1)
// constraint: the typed projection of the entity plus its current
// weighted contribution.
type uniMatch[A any] struct {
	value        A
	contribution score.Score
}

// Uni is a monomorphized arity-1 constraint stream/evaluator: source
// a collection, filter it, and penalize/reward the survivors.
type Uni[A any] struct {
	collection string
	project    func(ref domain.EntityRef, raw any) A
	filters    []func(A) bool

	impact   Impact
	weightFn func(A) score.Score
	zero     score.Score

	matches map[domain.EntityRef]uniMatch[A]
	total   score.Score
}

// ForEach sources a constraint stream from every element of
// collection, implementing the `for_each(coll)` builder operation.
func ForEach[A any](collection string, project func(domain.EntityRef, any) A) *Uni[A] {
	return &Uni[A]{
		collection: collection,
		project:    project,
		matches:    make(map[domain.EntityRef]uniMatch[A]),
	}
}

// Filter drops tuples failing pred, implementing `filter(pred)`.
func (u *Uni[A]) Filter(pred func(A) bool) *Uni[A] {
	u.filters = append(u.filters, pred)
	return u
}

func (u *Uni[A]) passes(a A) bool {
	for _, f := range u.filters {
		if !f(a) {
			return false
		}
	}
	return true
}

// Penalize closes the stream with a penalizing weight, implementing
// `penalize(weight)`. zero must be the identity score of the
// solution's configured score kind.
func (u *Uni[A]) Penalize(zero score.Score, weightFn func(A) score.Score) Constraint {
	u.impact, u.weightFn, u.zero = Penalize, weightFn, zero
	u.total = zero
	return u
}

// Reward closes the stream with a rewarding weight, implementing
// `reward(weight)`.
func (u *Uni[A]) Reward(zero score.Score, weightFn func(A) score.Score) Constraint {
	u.impact, u.weightFn, u.zero = Reward, weightFn, zero
	u.total = zero
	return u
}

func (u *Uni[A]) Name() string { return "Uni(" + u.collection + ")" }

func (u *Uni[A]) Total() score.Score { return u.total }

func (u *Uni[A]) MatchCount() int { return len(u.matches) }

func (u *Uni[A]) entryFor(s Scanner, ref domain.EntityRef) (uniMatch[A], bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	a := u.project(ref, raw)
	if !u.passes(a) {
		return uniMatch[A]{}, false
	}
	return uniMatch[A]{value: a, contribution: u.impact.apply(u.weightFn(a))}, true
}

func (u *Uni[A]) Initialize(s Scanner) {
	u.matches = make(map[domain.EntityRef]uniMatch[A])
	u.total = u.zero
	n := s.Descriptor().CollectionLen(s.Solution(), u.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: u.collection, Position: i}
		if m, ok := u.entryFor(s, ref); ok {
			u.matches[ref] = m
			u.total = u.total.Add(m.contribution)
		}
	}
}

func (u *Uni[A]) BeforeEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != u.collection {
		return
	}
	if m, ok := u.matches[ref]; ok {
		u.total = u.total.Add(m.contribution.Negate())
		delete(u.matches, ref)
	}
}

func (u *Uni[A]) AfterEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != u.collection {
		return
	}
	if m, ok := u.entryFor(s, ref); ok {
		u.matches[ref] = m
		u.total = u.total.Add(m.contribution)
	}
}

func (u *Uni[A]) Recompute(s Scanner) score.Score {
	total := u.zero
	n := s.Descriptor().CollectionLen(s.Solution(), u.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: u.collection, Position: i}
		if m, ok := u.entryFor(s, ref); ok {
			total = total.Add(m.contribution)
		}
	}
	return total
}
