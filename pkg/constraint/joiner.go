package constraint

// JoinKind enumerates the joiner kinds spec.md §4.3 names: equal-key,
// filtering predicate, and half-open interval overlap.
type JoinKind int

const (
	JoinEqual JoinKind = iota
	JoinFiltering
	JoinOverlapping
)

// Joiner pairs tuples from two streams. Equal-key joins are indexed
// (O(1) partner lookup per spec.md §4.4); filtering and overlapping
// joins fall back to scanning the partner side's current eligible set,
// since neither a predicate nor an interval bound is indexable in
// general without a dedicated interval tree — a simplification this
// repo documents in DESIGN.md rather than hides, in the same spirit as
// the teacher's own enumerated k-opt pattern table and greedy-matching
// fallback trading asymptotic purity for a working implementation at
// the scales its examples target.
type Joiner[A, B any] struct {
	Kind   JoinKind
	KeyA   func(A) any
	KeyB   func(B) any
	Pred   func(A, B) bool
	RangeA func(A) (start, end float64)
	RangeB func(B) (start, end float64)
}

// EqualKeys builds an indexed equal-key joiner.
func EqualKeys[A, B any, K comparable](keyA func(A) K, keyB func(B) K) Joiner[A, B] {
	return Joiner[A, B]{
		Kind: JoinEqual,
		KeyA: func(a A) any { return keyA(a) },
		KeyB: func(b B) any { return keyB(b) },
	}
}

// Filtering builds a joiner from an arbitrary predicate over the pair.
func Filtering[A, B any](pred func(A, B) bool) Joiner[A, B] {
	return Joiner[A, B]{Kind: JoinFiltering, Pred: pred}
}

// Overlapping builds a half-open-interval overlap joiner:
// [sa, ea) ∩ [sb, eb) ≠ ∅.
func Overlapping[A, B any](rangeA func(A) (float64, float64), rangeB func(B) (float64, float64)) Joiner[A, B] {
	return Joiner[A, B]{Kind: JoinOverlapping, RangeA: rangeA, RangeB: rangeB}
}

func (j Joiner[A, B]) matches(a A, b B) bool {
	switch j.Kind {
	case JoinEqual:
		return j.KeyA(a) == j.KeyB(b)
	case JoinFiltering:
		return j.Pred(a, b)
	case JoinOverlapping:
		sa, ea := j.RangeA(a)
		sb, eb := j.RangeB(b)
		return sa < eb && sb < ea
	default:
		return false
	}
}
