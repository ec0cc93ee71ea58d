// Package stream is the fluent-name façade spec.md §4.3 describes: a
// thin layer of differently-named wrappers over pkg/constraint's
// generic constructors, so callers write `stream.ForEach(...)` instead
// of reaching into the evaluator package directly. Every operation here
// is a direct forward; the monomorphized work happens in
// pkg/constraint.
package stream

import (
	"github.com/gitrdm/solverforge/pkg/constraint"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

// ForEach sources a stream from every element of collection,
// implementing `for_each(coll)`.
func ForEach[A any](collection string, project func(ref domain.EntityRef, raw any) A) *constraint.Uni[A] {
	return constraint.ForEach[A](collection, project)
}

// Join pairs tuples from left and right whose joiner matches,
// implementing `join(other, joiner)`.
func Join[A, B any](left *constraint.Uni[A], right *constraint.Uni[B], joiner constraint.Joiner[A, B]) *constraint.Bi[A, B] {
	return constraint.Join(left, right, joiner)
}

// JoinSelf self-joins source on distinct, strictly increasing indices,
// implementing `join_self(joiner)`.
func JoinSelf[A any](source *constraint.Uni[A], joiner constraint.Joiner[A, A]) *constraint.Bi[A, A] {
	return constraint.JoinSelf(source, joiner)
}

// EqualKeys builds an indexed equal-key joiner.
func EqualKeys[A, B any, K comparable](keyA func(A) K, keyB func(B) K) constraint.Joiner[A, B] {
	return constraint.EqualKeys(keyA, keyB)
}

// Filtering builds a joiner from an arbitrary predicate over the pair.
func Filtering[A, B any](pred func(A, B) bool) constraint.Joiner[A, B] {
	return constraint.Filtering(pred)
}

// Overlapping builds a half-open-interval overlap joiner.
func Overlapping[A, B any](rangeA func(A) (float64, float64), rangeB func(B) (float64, float64)) constraint.Joiner[A, B] {
	return constraint.Overlapping(rangeA, rangeB)
}

// IfExists keeps only source tuples with at least one current joiner
// match in other, implementing `if_exists(other, joiner)`.
func IfExists[A, B any](source *constraint.Uni[A], other *constraint.Uni[B], joiner constraint.Joiner[A, B]) *constraint.Exists[A, B] {
	return constraint.IfExists(source, other, joiner)
}

// IfNotExists keeps only source tuples with no current joiner match in
// other, implementing `if_not_exists(other, joiner)`.
func IfNotExists[A, B any](source *constraint.Uni[A], other *constraint.Uni[B], joiner constraint.Joiner[A, B]) *constraint.Exists[A, B] {
	return constraint.IfNotExists(source, other, joiner)
}

// FlattenLast turns each source tuple into the rows fn returns for it,
// implementing `flatten_last(fn)`.
func FlattenLast[A, C any](source *constraint.Uni[A], fn func(A) []C) *constraint.Flatten[A, C] {
	return constraint.FlattenLast(source, fn)
}

// ComplementOf keeps a live contribution for every universe value that
// source's current tuples don't present, implementing
// `complement(universe)`.
func ComplementOf[A comparable](source *constraint.Uni[A], universe []A) *constraint.Complement[A] {
	return constraint.ComplementOf(source, universe)
}

// AsConstraint assigns identity to a terminal Penalize/Reward result,
// implementing `as_constraint(name)`.
func AsConstraint(name string, c constraint.Constraint) constraint.Constraint {
	return constraint.AsConstraint(name, c)
}

// Zero is a convenience re-export so callers building a constraint
// pipeline don't need a second import just for the score package's
// identity value.
func Zero(kind score.Kind) score.Score { return score.Zero(kind) }

// GroupBy partitions every element of collection by key and folds
// each partition with collector, implementing `group_by(key,
// collector)`.
func GroupBy[A any, K comparable, R any](collection string, project func(ref domain.EntityRef, raw any) A, keyFn func(A) K, collector constraint.Collector[A, R]) *constraint.Group[A, K, R] {
	return constraint.GroupBy[A, K, R](collection, project, keyFn, collector)
}

// Count implements spec.md §4.3's "count" collector.
func Count[A any]() constraint.Collector[A, int] { return constraint.CountCollector[A]{} }

// SumOverField implements spec.md §4.3's "sum-over-field" collector.
func SumOverField[A any](field func(A) float64) constraint.Collector[A, float64] {
	return constraint.SumCollector[A]{Field: field}
}

// LoadBalance implements spec.md §4.4's "Load-balance" collector.
func LoadBalance[A any](field func(A) float64) constraint.Collector[A, constraint.LoadBalanceStat] {
	return constraint.LoadBalanceCollector[A]{Field: field}
}
