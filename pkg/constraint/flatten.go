package constraint

import (
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

// flattenKey identifies one row produced by flatten_last: the owning
// A-ref plus that row's position in fn's result slice.
type flattenKey struct {
	ref domain.EntityRef
	idx int
}

type flattenMatch[C any] struct {
	value        C
	contribution score.Score
}

// Flatten is the arity-increasing evaluator produced by flatten_last:
// it turns each A-side tuple into zero or more C rows via fn, so a
// single chained entity's route, a roster slot's candidate list, or
// any other one-to-many field can join the algebra as its own stream
// of C tuples without leaving the incremental-maintenance contract.
type Flatten[A, C any] struct {
	collection string
	project    func(domain.EntityRef, any) A
	filtersA   []func(A) bool
	fn         func(A) []C
	filtersC   []func(C) bool

	impact   Impact
	weightFn func(C) score.Score
	zero     score.Score

	matches   map[flattenKey]flattenMatch[C]
	rowsByRef map[domain.EntityRef][]flattenKey
	total     score.Score
}

// FlattenLast turns each A-side tuple into the rows fn returns for it,
// implementing `flatten_last(fn)`.
func FlattenLast[A, C any](source *Uni[A], fn func(A) []C) *Flatten[A, C] {
	return &Flatten[A, C]{
		collection: source.collection,
		project:    source.project,
		filtersA:   append([]func(A) bool(nil), source.filters...),
		fn:         fn,
		matches:    make(map[flattenKey]flattenMatch[C]),
		rowsByRef:  make(map[domain.EntityRef][]flattenKey),
	}
}

// Filter drops flattened rows failing pred, applied after fn expands
// each A tuple into its C rows.
func (f *Flatten[A, C]) Filter(pred func(C) bool) *Flatten[A, C] {
	f.filtersC = append(f.filtersC, pred)
	return f
}

func (f *Flatten[A, C]) passesC(c C) bool {
	for _, p := range f.filtersC {
		if !p(c) {
			return false
		}
	}
	return true
}

func (f *Flatten[A, C]) rowsFor(s Scanner, ref domain.EntityRef) ([]C, bool) {
	raw := s.Descriptor().EntityAt(s.Solution(), ref)
	a := f.project(ref, raw)
	for _, flt := range f.filtersA {
		if !flt(a) {
			return nil, false
		}
	}
	return f.fn(a), true
}

func (f *Flatten[A, C]) Penalize(zero score.Score, weightFn func(C) score.Score) Constraint {
	f.impact, f.weightFn, f.zero = Penalize, weightFn, zero
	f.total = zero
	return f
}

func (f *Flatten[A, C]) Reward(zero score.Score, weightFn func(C) score.Score) Constraint {
	f.impact, f.weightFn, f.zero = Reward, weightFn, zero
	f.total = zero
	return f
}

func (f *Flatten[A, C]) Name() string       { return "Flatten(" + f.collection + ")" }
func (f *Flatten[A, C]) Total() score.Score { return f.total }
func (f *Flatten[A, C]) MatchCount() int    { return len(f.matches) }

func (f *Flatten[A, C]) insertRowsFor(s Scanner, ref domain.EntityRef) {
	rows, ok := f.rowsFor(s, ref)
	if !ok {
		return
	}
	var keys []flattenKey
	for idx, c := range rows {
		if !f.passesC(c) {
			continue
		}
		key := flattenKey{ref: ref, idx: idx}
		contribution := f.impact.apply(f.weightFn(c))
		f.matches[key] = flattenMatch[C]{value: c, contribution: contribution}
		f.total = f.total.Add(contribution)
		keys = append(keys, key)
	}
	if len(keys) > 0 {
		f.rowsByRef[ref] = keys
	}
}

func (f *Flatten[A, C]) removeRowsFor(ref domain.EntityRef) {
	for _, key := range f.rowsByRef[ref] {
		if m, ok := f.matches[key]; ok {
			f.total = f.total.Add(m.contribution.Negate())
			delete(f.matches, key)
		}
	}
	delete(f.rowsByRef, ref)
}

func (f *Flatten[A, C]) Initialize(s Scanner) {
	f.matches = make(map[flattenKey]flattenMatch[C])
	f.rowsByRef = make(map[domain.EntityRef][]flattenKey)
	f.total = f.zero
	n := s.Descriptor().CollectionLen(s.Solution(), f.collection)
	for i := 0; i < n; i++ {
		f.insertRowsFor(s, domain.EntityRef{Collection: f.collection, Position: i})
	}
}

func (f *Flatten[A, C]) BeforeEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != f.collection {
		return
	}
	f.removeRowsFor(ref)
}

func (f *Flatten[A, C]) AfterEntityChanged(s Scanner, ref domain.EntityRef) {
	if ref.Collection != f.collection {
		return
	}
	f.insertRowsFor(s, ref)
}

func (f *Flatten[A, C]) Recompute(s Scanner) score.Score {
	total := f.zero
	n := s.Descriptor().CollectionLen(s.Solution(), f.collection)
	for i := 0; i < n; i++ {
		ref := domain.EntityRef{Collection: f.collection, Position: i}
		rows, ok := f.rowsFor(s, ref)
		if !ok {
			continue
		}
		for _, c := range rows {
			if f.passesC(c) {
				total = total.Add(f.impact.apply(f.weightFn(c)))
			}
		}
	}
	return total
}
