// Package domain implements the runtime metadata ("descriptors") that
// let the generic core reach into a user's planning solution without
// depending on its concrete Go types. A SolutionDescriptor is built
// once, at solver-construction time, from the user's declared entity
// and fact collections; everything downstream (constraint streams,
// the score director, moves) navigates the solution exclusively
// through the descriptor's extractors.
//
// Following the teacher's own boundary-crossing pattern (Term is an
// interface wrapping arbitrary Go values via Atom{value interface{}}),
// user types cross into this package as `any` and are reached back
// out via reflection-backed extractor closures — the "dynamic typing
// at the domain boundary" design note of SPEC_FULL.md.
package domain

import "fmt"

// EntityRef identifies an entity or fact by its collection and its
// position within that collection, per spec.md §3 ("Identity of an
// entity or fact is its position in its collection plus its
// collection index").
type EntityRef struct {
	Collection string
	Position   int
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s[%d]", r.Collection, r.Position)
}

// IsZero reports whether r is the unset EntityRef, used to represent
// an unassigned chained variable's anchor-or-nothing state before the
// chain has been built.
func (r EntityRef) IsZero() bool {
	return r.Collection == "" && r.Position == 0
}

// Less provides the total order self-join normalization relies on
// (spec.md §4.4: "tuples are stored in strictly increasing index
// order ... to avoid counting each combination a! times").
func (r EntityRef) Less(other EntityRef) bool {
	if r.Collection != other.Collection {
		return r.Collection < other.Collection
	}
	return r.Position < other.Position
}
