package weakarray

import "iter"

// All returns an iterator over the live values in slot order. Empty slots are
// skipped. Each call starts again from the first slot.
//
// The array is locked only while locating each value, never while the loop
// body runs. Structural changes made during iteration, including compaction,
// may cause values to be skipped or visited twice.
func (a *Array[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range a.Entries() {
			if !yield(v) {
				return
			}
		}
	}
}

// Entries is like All but also yields the slot index of each value.
func (a *Array[T]) Entries() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; ; i++ {
			var v *T
			i, v = a.nextLive(i)
			if v == nil {
				return
			}
			if !yield(i, v) {
				return
			}
		}
	}
}

// nextLive returns the first live slot at or after from.
func (a *Array[T]) nextLive(from int) (int, *T) {
	defer a.lock()()
	for i := from; i < len(a.slots); i++ {
		if v := a.slots[i].value(); v != nil {
			return i, v
		}
	}
	return len(a.slots), nil
}
