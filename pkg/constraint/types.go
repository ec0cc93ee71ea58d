// Package constraint implements the incremental constraint evaluator
// of spec.md §4.4 — the hardest part of the core. Every constraint of
// arity a maintains, between mutation notifications, a match set of
// satisfying entity-reference tuples, a per-key index for join
// operands, and a per-entity posting list so that a single variable
// change touching entity e is priced in O(k) time (k = matches
// touching e), not by rescanning the whole match space.
//
// The stream builder (pkg/stream) and the evaluator live in the same
// package on purpose: the spec's design note "no trait-object
// dispatch on hot paths ... constraint closures must be specialized
// at construction" is exactly what Go's generics give for free. A
// Uni[A] or Bi[A, B] constraint is monomorphized by the compiler at
// each instantiation site, so filter/key/weight closures are direct
// calls, never interface dispatch, all the way down. pkg/stream is a
// thin fluent-name façade over the generic constructors here.
package constraint

import (
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

// Impact marks whether a terminal operation penalizes (subtracts) or
// rewards (adds) its per-tuple weight.
type Impact int

const (
	Penalize Impact = iota
	Reward
)

func (i Impact) apply(weight score.Score) score.Score {
	if i == Penalize {
		return weight.Negate()
	}
	return weight
}

// Scanner is the director-held accessor a constraint uses to read the
// working solution during Initialize and Recompute. It is the
// "extractor" boundary of SPEC_FULL.md's domain descriptors: the
// constraint package never imports user types.
type Scanner interface {
	Solution() any
	Descriptor() *domain.SolutionDescriptor
}

// Constraint is the director-facing interface every arity's evaluator
// (Uni, Bi, Group, ...) implements.
type Constraint interface {
	// Name identifies the constraint for diagnostics and corruption
	// reports.
	Name() string

	// Total returns the constraint's current running contribution —
	// must equal a from-scratch recomputation at every observable
	// state (spec.md §4.4's correctness invariant).
	Total() score.Score

	// Initialize performs a full scan, populating match sets and
	// indices from scratch. Called once by the director before the
	// first calculate_score.
	Initialize(s Scanner)

	// BeforeEntityChanged retracts every match tuple containing ref,
	// subtracting their contributions from Total and removing them
	// from all posting lists and key indices.
	BeforeEntityChanged(s Scanner, ref domain.EntityRef)

	// AfterEntityChanged recomputes ref's new matches under its
	// post-change state and inserts the survivors, adding their
	// contributions to Total.
	AfterEntityChanged(s Scanner, ref domain.EntityRef)

	// Recompute returns a from-scratch total without mutating any
	// cached state, used by the director's periodic corruption check.
	Recompute(s Scanner) score.Score

	// MatchCount reports the current size of the match set, used by
	// diagnostics and tests asserting exact match-set membership.
	MatchCount() int
}

// Named wraps an unnamed constraint template with its identity,
// implementing the stream builder's terminal `as_constraint(name)`
// operation.
type Named struct {
	Constraint
	name string
}

func (n *Named) Name() string { return n.name }

// AsConstraint assigns identity to a constraint produced by a
// terminal Penalize/Reward call.
func AsConstraint(name string, c Constraint) Constraint {
	return &Named{Constraint: c, name: name}
}
