package rend3

import "fmt"

// arena is the sparse handle-indexed storage shared by all resource
// managers. A slot holds nil when its handle is dead; handles are plain
// indices, so validity is exactly slot occupancy. Touching a dead slot is a
// caller contract violation, not a recoverable error.
type arena[T any] struct {
	data []*T
}

// set inserts or overwrites the slot at idx, growing storage as needed.
// New slots created by growth start empty.
func (a *arena[T]) set(idx int, value *T) {
	if idx >= len(a.data) {
		grown := make([]*T, idx+1)
		copy(grown, a.data)
		a.data = grown
	}
	a.data[idx] = value
}

// get returns the live value at idx. Panics if the slot is empty or out of
// range.
func (a *arena[T]) get(idx int) *T {
	if idx >= len(a.data) || a.data[idx] == nil {
		panic(fmt.Sprintf("rend3: use of dead resource handle %d", idx))
	}
	return a.data[idx]
}

// remove clears the slot at idx and returns its previous value. Panics if
// the slot is already empty.
func (a *arena[T]) remove(idx int) *T {
	value := a.get(idx)
	a.data[idx] = nil
	return value
}

// len reports the slot count, including empty slots.
func (a *arena[T]) len() int {
	return len(a.data)
}
