package constraint

import "github.com/gitrdm/solverforge/pkg/domain"
import "github.com/gitrdm/solverforge/pkg/score"

// Collector folds a stream of per-entity values into an incremental
// accumulator, implementing spec.md §4.4's "accumulator owning the
// partial fold": Insert and Retract both run in O(1), so a group's
// state is maintained exactly rather than rescanned on every change.
type Collector[A, R any] interface {
	Zero() R
	Insert(current R, value A) R
	Retract(current R, value A) R
}

// CountCollector implements spec.md §4.3's "count" collector: the
// number of values inserted into the group.
type CountCollector[A any] struct{}

func (CountCollector[A]) Zero() int                   { return 0 }
func (CountCollector[A]) Insert(current int, _ A) int { return current + 1 }
func (CountCollector[A]) Retract(current int, _ A) int { return current - 1 }

// SumCollector implements spec.md §4.3's "sum-over-field" collector:
// Field extracts the numeric value summed per group.
type SumCollector[A any] struct {
	Field func(A) float64
}

func (c SumCollector[A]) Zero() float64 { return 0 }
func (c SumCollector[A]) Insert(current float64, v A) float64 {
	return current + c.Field(v)
}
func (c SumCollector[A]) Retract(current float64, v A) float64 {
	return current - c.Field(v)
}

// LoadBalanceStat is a load-balance collector's running state: a
// count and sum-of-squares of a numeric extraction, sufficient to
// derive the population imbalance statistic without replaying the
// group's members (spec.md §4.4 "Load-balance collector").
type LoadBalanceStat struct {
	Count  int
	Sum    float64
	SumSq  float64
}

// Imbalance is the sum of squared deviations from the mean: Σ(x-μ)² =
// Σx² - (Σx)²/n, computed from the running totals in O(1).
func (s LoadBalanceStat) Imbalance() float64 {
	if s.Count == 0 {
		return 0
	}
	mean := s.Sum / float64(s.Count)
	return s.SumSq - mean*s.Sum
}

// LoadBalanceCollector implements spec.md §4.4's "Load-balance
// collector": Field extracts the numeric quantity whose population
// imbalance among each group's members is tracked.
type LoadBalanceCollector[A any] struct {
	Field func(A) float64
}

func (c LoadBalanceCollector[A]) Zero() LoadBalanceStat { return LoadBalanceStat{} }
func (c LoadBalanceCollector[A]) Insert(current LoadBalanceStat, v A) LoadBalanceStat {
	x := c.Field(v)
	current.Count++
	current.Sum += x
	current.SumSq += x * x
	return current
}
func (c LoadBalanceCollector[A]) Retract(current LoadBalanceStat, v A) LoadBalanceStat {
	x := c.Field(v)
	current.Count--
	current.Sum -= x
	current.SumSq -= x * x
	return current
}

// groupMember is one source entity's current contribution to its
// group: the projected value (needed to retract it later) and the key
// it was filed under (a variable change can move an entity between
// groups, so the old key must be retrievable without reprojecting a
// possibly-already-mutated entity).
type groupMember[A any, K comparable] struct {
	value A
	key   K
}

// Group is a monomorphized group-by constraint stream/evaluator,
// implementing spec.md §4.3's `group_by(key, collector)`: one row per
// source entity, partitioned by key, each partition folded by an
// incremental Collector. Grounded on Uni's match-set bookkeeping (see
// uni.go), generalized from a flat per-entity contribution to a
// per-group one: retraction and insertion update the one group the
// changed entity belongs to, and the constraint's Total only ever
// reflects the delta between that group's old and new weighted
// result (spec.md §4.4 "the delta is weight(new_group) −
// weight(old_group)").
type Group[A any, K comparable, R any] struct {
	collection string
	project    func(ref domain.EntityRef, raw any) A
	filters    []func(A) bool
	keyFn      func(A) K
	collector  Collector[A, R]

	impact   Impact
	weightFn func(K, R) score.Score
	zero     score.Score

	members map[domain.EntityRef]groupMember[A, K]
	groups  map[K]R
	total   score.Score
}

// GroupBy sources a group-by constraint stream from every element of
// collection, keyed and folded as given.
func GroupBy[A any, K comparable, R any](collection string, project func(domain.EntityRef, any) A, keyFn func(A) K, collector Collector[A, R]) *Group[A, K, R] {
	return &Group[A, K, R]{
		collection: collection,
		project:    project,
		keyFn:      keyFn,
		collector:  collector,
		members:    make(map[domain.EntityRef]groupMember[A, K]),
		groups:     make(map[K]R),
	}
}

// Filter drops tuples failing pred before they are grouped.
func (g *Group[A, K, R]) Filter(pred func(A) bool) *Group[A, K, R] {
	g.filters = append(g.filters, pred)
	return g
}

func (g *Group[A, K, R]) passes(a A) bool {
	for _, f := range g.filters {
		if !f(a) {
			return false
		}
	}
	return true
}

// Penalize closes the stream with a per-group penalizing weight.
func (g *Group[A, K, R]) Penalize(zero score.Score, weightFn func(K, R) score.Score) Constraint {
	g.impact, g.weightFn, g.zero = Penalize, weightFn, zero
	g.total = zero
	return g
}

// Reward closes the stream with a per-group rewarding weight.
func (g *Group[A, K, R]) Reward(zero score.Score, weightFn func(K, R) score.Score) Constraint {
	g.impact, g.weightFn, g.zero = Reward, weightFn, zero
	g.total = zero
	return g
}

func (g *Group[A, K, R]) Name() string { return "Group(" + g.collection + ")" }

func (g *Group[A, K, R]) Total() score.Score { return g.total }

func (g *Group[A, K, R]) MatchCount() int { return len(g.members) }

func (g *Group[A, K, R]) contribution(key K) score.Score {
	result, ok := g.groups[key]
	if !ok {
		result = g.collector.Zero()
	}
	return g.impact.apply(g.weightFn(key, result))
}

func (g *Group[A, K, R]) entryFor(s Scanner, ref domain.EntityRef) (A, bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	a := g.project(ref, raw)
	if !g.passes(a) {
		var zero A
		return zero, false
	}
	return a, true
}

func (g *Group[A, K, R]) Initialize(s Scanner) {
	g.members = make(map[domain.EntityRef]groupMember[A, K])
	g.groups = make(map[K]R)
	g.total = g.zero

	n := s.Descriptor().CollectionLen(s.Solution(), g.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: g.collection, Position: i}
		a, ok := g.entryFor(s, ref)
		if !ok {
			continue
		}
		key := g.keyFn(a)
		g.members[ref] = groupMember[A, K]{value: a, key: key}
		current, exists := g.groups[key]
		if !exists {
			current = g.collector.Zero()
		}
		g.groups[key] = g.collector.Insert(current, a)
	}
	for key := range g.groups {
		g.total = g.total.Add(g.contribution(key))
	}
}

func (g *Group[A, K, R]) BeforeEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != g.collection {
		return
	}
	m, ok := g.members[ref]
	if !ok {
		return
	}
	before := g.contribution(m.key)
	g.groups[m.key] = g.collector.Retract(g.groups[m.key], m.value)
	after := g.contribution(m.key)
	g.total = g.total.Add(after.Add(before.Negate()))
	delete(g.members, ref)
}

func (g *Group[A, K, R]) AfterEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != g.collection {
		return
	}
	a, ok := g.entryFor(s, ref)
	if !ok {
		return
	}
	key := g.keyFn(a)
	before := g.contribution(key)
	current, exists := g.groups[key]
	if !exists {
		current = g.collector.Zero()
	}
	g.groups[key] = g.collector.Insert(current, a)
	after := g.contribution(key)
	g.total = g.total.Add(after.Add(before.Negate()))
	g.members[ref] = groupMember[A, K]{value: a, key: key}
}

func (g *Group[A, K, R]) Recompute(s Scanner) score.Score {
	groups := make(map[K]R)
	n := s.Descriptor().CollectionLen(s.Solution(), g.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: g.collection, Position: i}
		a, ok := g.entryFor(s, ref)
		if !ok {
			continue
		}
		key := g.keyFn(a)
		current, exists := groups[key]
		if !exists {
			current = g.collector.Zero()
		}
		groups[key] = g.collector.Insert(current, a)
	}
	total := g.zero
	for key, result := range groups {
		total = total.Add(g.impact.apply(g.weightFn(key, result)))
	}
	return total
}
