package move

import (
	"reflect"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/domain"
)

// List-variable moves reach into the list field via reflection the
// same way pkg/domain's descriptors do: Variable.Get returns the
// backing slice as `any`. Every list move builds its new list on a copy
// made by listClone and installs it through Variable.Set; the slice
// that was installed before the move is never written in place.

func listValue(variable *domain.VariableDescriptor, entity any) reflect.Value {
	return reflect.ValueOf(variable.Get(entity))
}

func listLen(variable *domain.VariableDescriptor, entity any) int {
	return listValue(variable, entity).Len()
}

func listClone(variable *domain.VariableDescriptor, entity any) reflect.Value {
	v := listValue(variable, entity)
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out
}

// ListChange moves a single element from SourceRef's list at
// SourceIndex to DestRef's list at DestIndex, implementing spec.md
// §4.6's "list-change" move (DestRef may equal SourceRef, relocating
// within one owner's list).
type ListChange struct {
	SourceRef, DestRef   domain.EntityRef
	SourceIndex, DestIndex int
	Variable             *domain.VariableDescriptor
}

func (m *ListChange) IsDoable(d *director.Director) bool {
	src := entityAt(d, m.SourceRef)
	if listLen(m.Variable, src) <= m.SourceIndex {
		return false
	}
	if m.SourceRef == m.DestRef && m.SourceIndex == m.DestIndex {
		return false
	}
	return true
}

func (m *ListChange) Apply(d *director.Director) {
	src := entityAt(d, m.SourceRef)
	dst := entityAt(d, m.DestRef)

	srcList := listClone(m.Variable, src)
	elem := srcList.Index(m.SourceIndex).Interface()
	srcList = reflect.AppendSlice(srcList.Slice(0, m.SourceIndex), srcList.Slice(m.SourceIndex+1, srcList.Len()))

	var dstList reflect.Value
	if m.SourceRef == m.DestRef {
		dstList = srcList
	} else {
		dstList = listClone(m.Variable, dst)
	}
	head := reflect.AppendSlice(reflect.MakeSlice(dstList.Type(), 0, dstList.Len()+1), dstList.Slice(0, m.DestIndex))
	head = reflect.Append(head, reflect.ValueOf(elem))
	dstList = reflect.AppendSlice(head, dstList.Slice(m.DestIndex, dstList.Len()))

	oldSrcSnapshot := snapshotList(m.Variable, src)
	oldDstSnapshot := snapshotList(m.Variable, dst)
	d.BeforeVariableChanged(m.SourceRef, m.Variable.Name)
	if m.SourceRef != m.DestRef {
		d.BeforeVariableChanged(m.DestRef, m.Variable.Name)
	}
	if m.SourceRef == m.DestRef {
		m.Variable.Set(src, dstList.Interface())
	} else {
		m.Variable.Set(src, srcList.Interface())
		m.Variable.Set(dst, dstList.Interface())
	}
	d.AfterVariableChanged(m.SourceRef, m.Variable.Name)
	if m.SourceRef != m.DestRef {
		d.AfterVariableChanged(m.DestRef, m.Variable.Name)
	}

	d.RegisterUndo(func() {
		d.BeforeVariableChanged(m.SourceRef, m.Variable.Name)
		if m.SourceRef != m.DestRef {
			d.BeforeVariableChanged(m.DestRef, m.Variable.Name)
		}
		restoreList(m.Variable, src, oldSrcSnapshot)
		if m.SourceRef != m.DestRef {
			restoreList(m.Variable, dst, oldDstSnapshot)
		}
		d.AfterVariableChanged(m.SourceRef, m.Variable.Name)
		if m.SourceRef != m.DestRef {
			d.AfterVariableChanged(m.DestRef, m.Variable.Name)
		}
	})
}

func (m *ListChange) AffectedEntities() []domain.EntityRef {
	if m.SourceRef == m.DestRef {
		return []domain.EntityRef{m.SourceRef}
	}
	return []domain.EntityRef{m.SourceRef, m.DestRef}
}
func (m *ListChange) VariableName() string { return m.Variable.Name }

// snapshotList and restoreList capture/replay a pre-apply list value
// for undo: the snapshot is taken before a move installs its new
// slice, and the undo closure reinstalls it.
func snapshotList(variable *domain.VariableDescriptor, entity any) reflect.Value {
	return listClone(variable, entity)
}

func restoreList(variable *domain.VariableDescriptor, entity any, snapshot reflect.Value) {
	variable.Set(entity, snapshot.Interface())
}

// ListSwap exchanges the elements at two (entity, index) positions,
// implementing spec.md §4.6's "list-swap" move.
type ListSwap struct {
	RefA, RefB     domain.EntityRef
	IndexA, IndexB int
	Variable       *domain.VariableDescriptor
}

func (m *ListSwap) IsDoable(d *director.Director) bool {
	a, b := entityAt(d, m.RefA), entityAt(d, m.RefB)
	if m.RefA == m.RefB && m.IndexA == m.IndexB {
		return false
	}
	return m.IndexA < listLen(m.Variable, a) && m.IndexB < listLen(m.Variable, b)
}

func (m *ListSwap) Apply(d *director.Director) {
	a, b := entityAt(d, m.RefA), entityAt(d, m.RefB)
	beforeA := snapshotList(m.Variable, a)
	var beforeB reflect.Value
	if m.RefA != m.RefB {
		beforeB = snapshotList(m.Variable, b)
	}

	d.BeforeVariableChanged(m.RefA, m.Variable.Name)
	if m.RefA != m.RefB {
		d.BeforeVariableChanged(m.RefB, m.Variable.Name)
	}

	if m.RefA == m.RefB {
		listA := listClone(m.Variable, a)
		ea := listA.Index(m.IndexA).Interface()
		eb := listA.Index(m.IndexB).Interface()
		listA.Index(m.IndexA).Set(reflect.ValueOf(eb))
		listA.Index(m.IndexB).Set(reflect.ValueOf(ea))
		m.Variable.Set(a, listA.Interface())
	} else {
		listA := listClone(m.Variable, a)
		listB := listClone(m.Variable, b)
		ea := listA.Index(m.IndexA).Interface()
		eb := listB.Index(m.IndexB).Interface()
		listA.Index(m.IndexA).Set(reflect.ValueOf(eb))
		listB.Index(m.IndexB).Set(reflect.ValueOf(ea))
		m.Variable.Set(a, listA.Interface())
		m.Variable.Set(b, listB.Interface())
	}

	d.AfterVariableChanged(m.RefA, m.Variable.Name)
	if m.RefA != m.RefB {
		d.AfterVariableChanged(m.RefB, m.Variable.Name)
	}

	d.RegisterUndo(func() {
		d.BeforeVariableChanged(m.RefA, m.Variable.Name)
		if m.RefA != m.RefB {
			d.BeforeVariableChanged(m.RefB, m.Variable.Name)
		}
		restoreList(m.Variable, a, beforeA)
		if m.RefA != m.RefB {
			restoreList(m.Variable, b, beforeB)
		}
		d.AfterVariableChanged(m.RefA, m.Variable.Name)
		if m.RefA != m.RefB {
			d.AfterVariableChanged(m.RefB, m.Variable.Name)
		}
	})
}

func (m *ListSwap) AffectedEntities() []domain.EntityRef {
	if m.RefA == m.RefB {
		return []domain.EntityRef{m.RefA}
	}
	return []domain.EntityRef{m.RefA, m.RefB}
}
func (m *ListSwap) VariableName() string { return m.Variable.Name }

// SubListChange relocates a contiguous run of Length elements starting
// at SourceIndex to DestIndex, optionally reversing the run in
// transit, implementing spec.md §4.6's "sub-list-change" move.
type SubListChange struct {
	SourceRef, DestRef     domain.EntityRef
	SourceIndex, Length, DestIndex int
	Reverse                bool
	Variable               *domain.VariableDescriptor
}

func (m *SubListChange) IsDoable(d *director.Director) bool {
	src := entityAt(d, m.SourceRef)
	return m.Length > 0 && m.SourceIndex+m.Length <= listLen(m.Variable, src)
}

func (m *SubListChange) Apply(d *director.Director) {
	src := entityAt(d, m.SourceRef)
	dst := entityAt(d, m.DestRef)
	beforeSrc := snapshotList(m.Variable, src)
	var beforeDst reflect.Value
	if m.SourceRef != m.DestRef {
		beforeDst = snapshotList(m.Variable, dst)
	}

	srcList := listClone(m.Variable, src)
	segment := reflect.MakeSlice(srcList.Type(), m.Length, m.Length)
	reflect.Copy(segment, srcList.Slice(m.SourceIndex, m.SourceIndex+m.Length))
	if m.Reverse {
		for i, j := 0, m.Length-1; i < j; i, j = i+1, j-1 {
			vi, vj := segment.Index(i).Interface(), segment.Index(j).Interface()
			segment.Index(i).Set(reflect.ValueOf(vj))
			segment.Index(j).Set(reflect.ValueOf(vi))
		}
	}
	remainder := reflect.AppendSlice(srcList.Slice(0, m.SourceIndex), srcList.Slice(m.SourceIndex+m.Length, srcList.Len()))

	var dstBase reflect.Value
	if m.SourceRef == m.DestRef {
		dstBase = remainder
	} else {
		dstBase = listClone(m.Variable, dst)
	}
	head := reflect.AppendSlice(reflect.MakeSlice(dstBase.Type(), 0, dstBase.Len()+m.Length), dstBase.Slice(0, m.DestIndex))
	head = reflect.AppendSlice(head, segment)
	newDst := reflect.AppendSlice(head, dstBase.Slice(m.DestIndex, dstBase.Len()))

	d.BeforeVariableChanged(m.SourceRef, m.Variable.Name)
	if m.SourceRef != m.DestRef {
		d.BeforeVariableChanged(m.DestRef, m.Variable.Name)
	}
	if m.SourceRef == m.DestRef {
		m.Variable.Set(src, newDst.Interface())
	} else {
		m.Variable.Set(src, remainder.Interface())
		m.Variable.Set(dst, newDst.Interface())
	}
	d.AfterVariableChanged(m.SourceRef, m.Variable.Name)
	if m.SourceRef != m.DestRef {
		d.AfterVariableChanged(m.DestRef, m.Variable.Name)
	}

	d.RegisterUndo(func() {
		d.BeforeVariableChanged(m.SourceRef, m.Variable.Name)
		if m.SourceRef != m.DestRef {
			d.BeforeVariableChanged(m.DestRef, m.Variable.Name)
		}
		restoreList(m.Variable, src, beforeSrc)
		if m.SourceRef != m.DestRef {
			restoreList(m.Variable, dst, beforeDst)
		}
		d.AfterVariableChanged(m.SourceRef, m.Variable.Name)
		if m.SourceRef != m.DestRef {
			d.AfterVariableChanged(m.DestRef, m.Variable.Name)
		}
	})
}

func (m *SubListChange) AffectedEntities() []domain.EntityRef {
	if m.SourceRef == m.DestRef {
		return []domain.EntityRef{m.SourceRef}
	}
	return []domain.EntityRef{m.SourceRef, m.DestRef}
}
func (m *SubListChange) VariableName() string { return m.Variable.Name }

// SubListReverse reverses a contiguous run in place, implementing
// spec.md §4.6's "sub-list-reverse" move.
type SubListReverse struct {
	Ref             domain.EntityRef
	StartIndex, Length int
	Variable        *domain.VariableDescriptor
}

func (m *SubListReverse) IsDoable(d *director.Director) bool {
	entity := entityAt(d, m.Ref)
	return m.Length > 1 && m.StartIndex+m.Length <= listLen(m.Variable, entity)
}

func (m *SubListReverse) Apply(d *director.Director) {
	entity := entityAt(d, m.Ref)
	before := snapshotList(m.Variable, entity)

	list := listClone(m.Variable, entity)
	for i, j := m.StartIndex, m.StartIndex+m.Length-1; i < j; i, j = i+1, j-1 {
		vi, vj := list.Index(i).Interface(), list.Index(j).Interface()
		list.Index(i).Set(reflect.ValueOf(vj))
		list.Index(j).Set(reflect.ValueOf(vi))
	}

	d.BeforeVariableChanged(m.Ref, m.Variable.Name)
	m.Variable.Set(entity, list.Interface())
	d.AfterVariableChanged(m.Ref, m.Variable.Name)

	d.RegisterUndo(func() {
		d.BeforeVariableChanged(m.Ref, m.Variable.Name)
		restoreList(m.Variable, entity, before)
		d.AfterVariableChanged(m.Ref, m.Variable.Name)
	})
}

func (m *SubListReverse) AffectedEntities() []domain.EntityRef {
	return []domain.EntityRef{m.Ref}
}
func (m *SubListReverse) VariableName() string { return m.Variable.Name }
