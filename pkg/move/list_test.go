package move

import (
	"reflect"
	"testing"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
	"github.com/gitrdm/solverforge/pkg/score"
)

type owner struct {
	Items []domain.EntityRef
}

type bag struct {
	Owners []owner
	Tags   []string
}

func newBagDescriptor() *domain.SolutionDescriptor {
	sd := domain.NewSolutionDescriptor(score.KindSimple)
	sd.AddFact(&domain.FactDescriptor{
		Name: "tags",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*bag).Tags)
		},
	})
	sd.AddValueRange("tag_ref", domain.NewCollectionRange(sd, "tags"))
	sd.AddEntity(&domain.EntityDescriptor{
		Name: "owners",
		Extractor: func(solution any) reflect.Value {
			return reflect.ValueOf(solution.(*bag).Owners)
		},
		Variables: []*domain.VariableDescriptor{
			domain.List("items", "tag_ref",
				func(e any) any { return e.(*owner).Items },
				func(e any, v any) { e.(*owner).Items = v.([]domain.EntityRef) },
			),
		},
	})
	return sd
}

func refs(indices ...int) []domain.EntityRef {
	out := make([]domain.EntityRef, len(indices))
	for i, idx := range indices {
		out[i] = domain.EntityRef{Collection: "tags", Position: idx}
	}
	return out
}

func newBagDirector() (*director.Director, *bag, *domain.VariableDescriptor) {
	b := &bag{
		Tags: []string{"a", "b", "c", "d"},
		Owners: []owner{
			{Items: refs(0, 1)},
			{Items: refs(2, 3)},
		},
	}
	sd := newBagDescriptor()
	d := director.New(sd, b, nil, nil)
	d.CalculateScore()
	return d, b, sd.EntityDescriptorFor("owners").VariableByName("items")
}

func TestListChangeBetweenOwnersAndUndo(t *testing.T) {
	d, b, variable := newBagDirector()
	src := domain.EntityRef{Collection: "owners", Position: 0}
	dst := domain.EntityRef{Collection: "owners", Position: 1}
	m := &ListChange{SourceRef: src, DestRef: dst, SourceIndex: 0, DestIndex: 2, Variable: variable}

	if !m.IsDoable(d) {
		t.Fatal("IsDoable() = false for a genuine relocation")
	}
	m.Apply(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(1)) {
		t.Fatalf("source Items = %v, want %v", got, refs(1))
	}
	if got := b.Owners[1].Items; !reflect.DeepEqual(got, refs(2, 3, 0)) {
		t.Fatalf("dest Items = %v, want %v", got, refs(2, 3, 0))
	}

	Undo(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(0, 1)) {
		t.Fatalf("source Items after undo = %v, want %v", got, refs(0, 1))
	}
	if got := b.Owners[1].Items; !reflect.DeepEqual(got, refs(2, 3)) {
		t.Fatalf("dest Items after undo = %v, want %v", got, refs(2, 3))
	}
}

func TestListChangeWithinOneOwner(t *testing.T) {
	d, b, variable := newBagDirector()
	owner0 := domain.EntityRef{Collection: "owners", Position: 0}
	m := &ListChange{SourceRef: owner0, DestRef: owner0, SourceIndex: 0, DestIndex: 1, Variable: variable}

	m.Apply(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(1, 0)) {
		t.Fatalf("Items = %v, want %v", got, refs(1, 0))
	}
	Undo(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(0, 1)) {
		t.Fatalf("Items after undo = %v, want %v", got, refs(0, 1))
	}
}

func TestListSwapAcrossOwnersAndUndo(t *testing.T) {
	d, b, variable := newBagDirector()
	ownerA := domain.EntityRef{Collection: "owners", Position: 0}
	ownerB := domain.EntityRef{Collection: "owners", Position: 1}
	m := &ListSwap{RefA: ownerA, RefB: ownerB, IndexA: 0, IndexB: 1, Variable: variable}

	m.Apply(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(3, 1)) {
		t.Fatalf("Owner A Items = %v, want %v", got, refs(3, 1))
	}
	if got := b.Owners[1].Items; !reflect.DeepEqual(got, refs(2, 0)) {
		t.Fatalf("Owner B Items = %v, want %v", got, refs(2, 0))
	}
	Undo(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(0, 1)) {
		t.Fatalf("Owner A Items after undo = %v, want %v", got, refs(0, 1))
	}
}

func TestSubListReverseInPlaceAndUndo(t *testing.T) {
	d, b, variable := newBagDirector()
	b.Owners[0].Items = refs(0, 1, 2, 3)
	ref := domain.EntityRef{Collection: "owners", Position: 0}
	m := &SubListReverse{Ref: ref, StartIndex: 0, Length: 4, Variable: variable}

	if !m.IsDoable(d) {
		t.Fatal("IsDoable() = false for a length-4 reverse over 4 elements")
	}
	m.Apply(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(3, 2, 1, 0)) {
		t.Fatalf("Items = %v, want %v", got, refs(3, 2, 1, 0))
	}
	Undo(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(0, 1, 2, 3)) {
		t.Fatalf("Items after undo = %v, want %v", got, refs(0, 1, 2, 3))
	}
}

func TestSubListReverseNotDoableForLengthOne(t *testing.T) {
	d, _, variable := newBagDirector()
	ref := domain.EntityRef{Collection: "owners", Position: 0}
	m := &SubListReverse{Ref: ref, StartIndex: 0, Length: 1, Variable: variable}
	if m.IsDoable(d) {
		t.Fatal("IsDoable() = true for Length 1, which carrier moves in examples/tsp rely on being false")
	}
}

func TestSubListChangeReversedRelocation(t *testing.T) {
	d, b, variable := newBagDirector()
	src := domain.EntityRef{Collection: "owners", Position: 0}
	dst := domain.EntityRef{Collection: "owners", Position: 1}
	m := &SubListChange{SourceRef: src, DestRef: dst, SourceIndex: 0, Length: 2, DestIndex: 0, Reverse: true, Variable: variable}

	m.Apply(d)
	if got := b.Owners[0].Items; len(got) != 0 {
		t.Fatalf("source Items = %v, want empty", got)
	}
	if got := b.Owners[1].Items; !reflect.DeepEqual(got, refs(1, 0, 2, 3)) {
		t.Fatalf("dest Items = %v, want %v", got, refs(1, 0, 2, 3))
	}
	Undo(d)
	if got := b.Owners[0].Items; !reflect.DeepEqual(got, refs(0, 1)) {
		t.Fatalf("source Items after undo = %v, want %v", got, refs(0, 1))
	}
	if got := b.Owners[1].Items; !reflect.DeepEqual(got, refs(2, 3)) {
		t.Fatalf("dest Items after undo = %v, want %v", got, refs(2, 3))
	}
}
