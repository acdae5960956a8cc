package weakarray

import (
	"iter"
	"slices"
)

// Add appends v. A nil v appends an empty slot.
func (a *Array[T]) Add(v *T) {
	defer a.lock()()
	a.add(v)
}

func (a *Array[T]) add(v *T) {
	a.slots = append(a.slots, makeSlot(a.kind, v))
	a.mutated(1)
}

// AddAll appends each value in order, as if by repeated calls to Add.
func (a *Array[T]) AddAll(values ...*T) {
	defer a.lock()()
	for _, v := range values {
		a.add(v)
	}
}

// AddSeq appends every value produced by seq. The sequence is consumed while
// the array is locked and must not use the array.
func (a *Array[T]) AddSeq(seq iter.Seq[*T]) {
	defer a.lock()()
	for v := range seq {
		a.add(v)
	}
}

// Insert places v at index i, shifting the slots at i and above up by one.
// i may equal Len to append.
func (a *Array[T]) Insert(i int, v *T) error {
	defer a.lock()()
	if i < 0 || i > len(a.slots) {
		return indexError("insert", i, len(a.slots))
	}
	a.slots = slices.Insert(a.slots, i, makeSlot(a.kind, v))
	a.mutated(1)
	return nil
}

// Replace overwrites the slot at index i with v. Indices do not shift.
func (a *Array[T]) Replace(i int, v *T) error {
	defer a.lock()()
	if i < 0 || i >= len(a.slots) {
		return indexError("replace", i, len(a.slots))
	}
	a.slots[i] = makeSlot(a.kind, v)
	a.mutated(1)
	return nil
}

// Remove deletes the slot at index i, shifting later slots down by one.
func (a *Array[T]) Remove(i int) error {
	defer a.lock()()
	if i < 0 || i >= len(a.slots) {
		return indexError("remove", i, len(a.slots))
	}
	a.slots = slices.Delete(a.slots, i, i+1)
	a.mutated(1)
	return nil
}

// RemoveFunc deletes every slot whose value satisfies pred and returns the
// number removed. Empty slots are never passed to pred and are kept.
//
// pred is evaluated for every slot before anything is removed, so a panic in
// pred leaves the array unchanged.
func (a *Array[T]) RemoveFunc(pred func(*T) bool) int {
	defer a.lock()()

	var matched []int
	for i, s := range a.slots {
		if v := s.value(); v != nil && pred(v) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return 0
	}

	writePos := 0
	next := 0
	for readPos, s := range a.slots {
		if next < len(matched) && matched[next] == readPos {
			next++
			continue
		}
		a.slots[writePos] = s
		writePos++
	}
	clear(a.slots[writePos:])
	a.slots = a.slots[:writePos]

	a.mutated(len(matched))
	return len(matched)
}

// RemoveAll deletes every slot, empty or not, and returns the number removed.
func (a *Array[T]) RemoveAll() int {
	defer a.lock()()
	n := len(a.slots)
	if n == 0 {
		return 0
	}
	clear(a.slots)
	a.slots = a.slots[:0]
	a.mutated(n)
	return n
}
