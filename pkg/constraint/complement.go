package constraint

import (
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

// Complement is the evaluator produced by complement(universe): it
// keeps a live contribution for every value in a fixed universe that
// no current A-side tuple presents — "every room with no meeting in
// it", "every shift slot nobody covers". Unlike every other evaluator
// in this package its match set is keyed by value, not by
// domain.EntityRef, since what it reports is an absence.
type Complement[A comparable] struct {
	collection  string
	project     func(domain.EntityRef, any) A
	filters     []func(A) bool
	universe    []A
	universeSet map[A]bool

	current map[domain.EntityRef]A
	present map[A]int
	posted  map[A]score.Score

	impact   Impact
	weightFn func(A) score.Score
	zero     score.Score
	total    score.Score
}

// ComplementOf keeps a live contribution for every universe value that
// source's current tuples don't present, implementing
// `complement(universe)`.
func ComplementOf[A comparable](source *Uni[A], universe []A) *Complement[A] {
	us := make(map[A]bool, len(universe))
	for _, u := range universe {
		us[u] = true
	}
	return &Complement[A]{
		collection:  source.collection,
		project:     source.project,
		filters:     append([]func(A) bool(nil), source.filters...),
		universe:    universe,
		universeSet: us,
		current:     make(map[domain.EntityRef]A),
		present:     make(map[A]int),
		posted:      make(map[A]score.Score),
	}
}

func (c *Complement[A]) Penalize(zero score.Score, weightFn func(A) score.Score) Constraint {
	c.impact, c.weightFn, c.zero = Penalize, weightFn, zero
	c.total = zero
	return c
}

func (c *Complement[A]) Reward(zero score.Score, weightFn func(A) score.Score) Constraint {
	c.impact, c.weightFn, c.zero = Reward, weightFn, zero
	c.total = zero
	return c
}

func (c *Complement[A]) Name() string       { return "Complement(" + c.collection + ")" }
func (c *Complement[A]) Total() score.Score { return c.total }
func (c *Complement[A]) MatchCount() int    { return len(c.posted) }

func (c *Complement[A]) entryFor(s Scanner, ref domain.EntityRef) (A, bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	a := c.project(ref, raw)
	for _, f := range c.filters {
		if !f(a) {
			var zero A
			return zero, false
		}
	}
	return a, true
}

// applyGuard reconsiders universe value u's posted contribution after
// its presence changed. A no-op for values outside the universe.
func (c *Complement[A]) applyGuard(u A) {
	if !c.universeSet[u] {
		return
	}
	_, isPresent := c.present[u]
	prev, hadPosted := c.posted[u]
	if isPresent {
		if hadPosted {
			c.total = c.total.Add(prev.Negate())
			delete(c.posted, u)
		}
		return
	}
	if !hadPosted {
		contribution := c.impact.apply(c.weightFn(u))
		c.posted[u] = contribution
		c.total = c.total.Add(contribution)
	}
}

func (c *Complement[A]) Initialize(s Scanner) {
	c.current = make(map[domain.EntityRef]A)
	c.present = make(map[A]int)
	c.posted = make(map[A]score.Score)
	c.total = c.zero

	n := s.Descriptor().CollectionLen(s.Solution(), c.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: c.collection, Position: i}
		if a, ok := c.entryFor(s, ref); ok {
			c.current[ref] = a
			c.present[a]++
		}
	}
	for _, u := range c.universe {
		c.applyGuard(u)
	}
}

func (c *Complement[A]) BeforeEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != c.collection {
		return
	}
	a, ok := c.current[ref]
	if !ok {
		return
	}
	delete(c.current, ref)
	c.present[a]--
	if c.present[a] <= 0 {
		delete(c.present, a)
		c.applyGuard(a)
	}
}

func (c *Complement[A]) AfterEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != c.collection {
		return
	}
	a, ok := c.entryFor(s, ref)
	if !ok {
		return
	}
	c.current[ref] = a
	wasAbsent := c.present[a] == 0
	c.present[a]++
	if wasAbsent {
		c.applyGuard(a)
	}
}

func (c *Complement[A]) Recompute(s Scanner) score.Score {
	present := make(map[A]bool)
	n := s.Descriptor().CollectionLen(s.Solution(), c.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: c.collection, Position: i}
		if a, ok := c.entryFor(s, ref); ok {
			present[a] = true
		}
	}
	total := c.zero
	for _, u := range c.universe {
		if !present[u] {
			total = total.Add(c.impact.apply(c.weightFn(u)))
		}
	}
	return total
}
