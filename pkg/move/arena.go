// Package move implements spec.md §4.6: reversible mutation primitives
// and the bump-style arena that owns them for the duration of one
// step. Grounded on the teacher's labeling.go (value-assignment choice
// points that can be tried and backtracked) for the apply/undo shape,
// and concrete_solvers.go's enumerated solver variants for the move
// taxonomy.
package move

import "fmt"

// Arena is a bump-allocated, index-keyed store of moves generated
// during one step. take(i) removes the i-th entry and leaves a
// tombstone; a second take of the same index panics (spec.md §4.6
// "double-take panics"). reset() truncates to length zero while
// retaining capacity, so repeated steps do not reallocate.
type Arena struct {
	slots []Move
	taken []bool
}

// NewArena creates an arena with the given starting capacity.
func NewArena(capacity int) *Arena {
	return &Arena{
		slots: make([]Move, 0, capacity),
		taken: make([]bool, 0, capacity),
	}
}

// Put appends m to the arena and returns its index.
func (a *Arena) Put(m Move) int {
	a.slots = append(a.slots, m)
	a.taken = append(a.taken, false)
	return len(a.slots) - 1
}

// Len reports how many moves (including already-taken tombstones) the
// arena currently holds.
func (a *Arena) Len() int { return len(a.slots) }

// Take moves the i-th entry out of the arena, leaving a tombstone.
// Taking the same index twice is an invariant breach and panics
// rather than silently returning a stale value.
func (a *Arena) Take(i int) Move {
	if i < 0 || i >= len(a.slots) {
		panic(fmt.Sprintf("move: arena index %d out of range [0,%d)", i, len(a.slots)))
	}
	if a.taken[i] {
		panic(fmt.Sprintf("move: arena double-take at index %d", i))
	}
	a.taken[i] = true
	m := a.slots[i]
	a.slots[i] = nil
	return m
}

// Reset truncates the arena to length zero while retaining its
// backing array's capacity, avoiding reallocation across steps.
func (a *Arena) Reset() {
	a.slots = a.slots[:0]
	a.taken = a.taken[:0]
}
