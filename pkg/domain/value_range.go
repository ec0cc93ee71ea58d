package domain

// ValueRangeProvider supplies the domain a planning variable draws
// from. Implementations cover the three shapes of spec.md §3: an
// explicit list, a half-open integer interval, and references into a
// named entity/fact collection. A provider may be solution-independent
// (static) or entity-dependent (recomputed per solution state); the
// IsEntityDependent flag tells the director whether it may cache a
// provider's values across entities.
type ValueRangeProvider interface {
	Kind() ValueRangeKind
	IsEntityDependent() bool

	// Len returns the number of values in the range for the given
	// solution/entity (entity is nil for solution-independent ranges).
	Len(solution, entity any) int

	// Get returns the i-th value in the range.
	Get(solution, entity any, i int) any
}

// StaticList is an explicit, solution-independent list of values.
type StaticList struct {
	Values []any
}

func (StaticList) Kind() ValueRangeKind        { return ValueRangeExplicitList }
func (StaticList) IsEntityDependent() bool     { return false }
func (r StaticList) Len(_, _ any) int          { return len(r.Values) }
func (r StaticList) Get(_, _ any, i int) any   { return r.Values[i] }

// IntegerRange is the half-open interval [From, To).
type IntegerRange struct {
	From, To int
}

func (IntegerRange) Kind() ValueRangeKind    { return ValueRangeInterval }
func (IntegerRange) IsEntityDependent() bool { return false }
func (r IntegerRange) Len(_, _ any) int      { return r.To - r.From }
func (r IntegerRange) Get(_, _ any, i int) any {
	return r.From + i
}

// CollectionRange draws its values from the extractor-yielded
// collection named by Collection, via the solution descriptor passed
// at construction. It is solution-independent in the sense that the
// set of referenceable entities doesn't change mid-solve (spec.md §3
// "Lifecycles": entities are never created or destroyed during
// solving), but its contents are read through the descriptor on every
// call rather than captured once, so it tracks collection aliasing
// exactly.
type CollectionRange struct {
	Collection string
	descriptor *SolutionDescriptor
}

// NewCollectionRange binds a CollectionRange to the collection named
// collection within descriptor.
func NewCollectionRange(descriptor *SolutionDescriptor, collection string) *CollectionRange {
	return &CollectionRange{Collection: collection, descriptor: descriptor}
}

func (CollectionRange) Kind() ValueRangeKind    { return ValueRangeCollectionRefs }
func (CollectionRange) IsEntityDependent() bool { return false }

func (r *CollectionRange) Len(solution, _ any) int {
	return r.descriptor.CollectionLen(solution, r.Collection)
}

func (r *CollectionRange) Get(solution, _ any, i int) any {
	return EntityRef{Collection: r.Collection, Position: i}
}

// ComputedValueRange is entity-dependent: Fn is re-evaluated for
// every (solution, entity) pair, e.g. "every vehicle whose remaining
// capacity can fit this customer's demand."
type ComputedValueRange struct {
	Fn func(solution, entity any) []any
}

func (ComputedValueRange) Kind() ValueRangeKind    { return ValueRangeExplicitList }
func (ComputedValueRange) IsEntityDependent() bool { return true }

func (r ComputedValueRange) Len(solution, entity any) int {
	return len(r.Fn(solution, entity))
}

func (r ComputedValueRange) Get(solution, entity any, i int) any {
	return r.Fn(solution, entity)[i]
}
