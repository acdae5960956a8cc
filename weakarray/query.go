package weakarray

// Len returns the number of slots, including empty slots not yet compacted.
func (a *Array[T]) Len() int {
	defer a.lock()()
	return len(a.slots)
}

// IsEmpty reports whether the array has no slots.
func (a *Array[T]) IsEmpty() bool {
	return a.Len() == 0
}

// Get returns the value at index i, or nil when i is out of range or the slot
// is empty.
func (a *Array[T]) Get(i int) *T {
	defer a.lock()()
	return a.get(i)
}

func (a *Array[T]) get(i int) *T {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	return a.slots[i].value()
}

// At returns the value at index i, or nil when the slot is empty.
// It panics if i is out of range.
func (a *Array[T]) At(i int) *T {
	defer a.lock()()
	return a.slots[i].value()
}

// First returns the value in the first slot, or nil.
func (a *Array[T]) First() *T {
	defer a.lock()()
	return a.get(0)
}

// Last returns the value in the last slot, or nil.
func (a *Array[T]) Last() *T {
	defer a.lock()()
	return a.get(len(a.slots) - 1)
}

// IndexFunc returns the index of the first value satisfying pred, or -1.
func (a *Array[T]) IndexFunc(pred func(*T) bool) int {
	defer a.lock()()
	i, _ := a.indexFunc(pred)
	return i
}

// LastIndexFunc returns the index of the last value satisfying pred, or -1.
func (a *Array[T]) LastIndexFunc(pred func(*T) bool) int {
	defer a.lock()()
	i, _ := a.lastIndexFunc(pred)
	return i
}

// FirstFunc returns the first value satisfying pred, or nil.
func (a *Array[T]) FirstFunc(pred func(*T) bool) *T {
	defer a.lock()()
	_, v := a.indexFunc(pred)
	return v
}

// LastFunc returns the last value satisfying pred, or nil.
func (a *Array[T]) LastFunc(pred func(*T) bool) *T {
	defer a.lock()()
	_, v := a.lastIndexFunc(pred)
	return v
}

func (a *Array[T]) indexFunc(pred func(*T) bool) (int, *T) {
	for i, s := range a.slots {
		if v := s.value(); v != nil && pred(v) {
			return i, v
		}
	}
	return -1, nil
}

func (a *Array[T]) lastIndexFunc(pred func(*T) bool) (int, *T) {
	for i := len(a.slots) - 1; i >= 0; i-- {
		if v := a.slots[i].value(); v != nil && pred(v) {
			return i, v
		}
	}
	return -1, nil
}

// Filter returns every value satisfying pred, in slot order.
func (a *Array[T]) Filter(pred func(*T) bool) []*T {
	defer a.lock()()
	var out []*T
	for _, s := range a.slots {
		if v := s.value(); v != nil && pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// ContainsFunc reports whether any value satisfies pred.
func (a *Array[T]) ContainsFunc(pred func(*T) bool) bool {
	defer a.lock()()
	i, _ := a.indexFunc(pred)
	return i >= 0
}

// Contains reports whether v itself, compared by pointer identity, is held by
// any slot. Contains(nil) is always false.
func (a *Array[T]) Contains(v *T) bool {
	if v == nil {
		return false
	}
	defer a.lock()()
	for _, s := range a.slots {
		if s.value() == v {
			return true
		}
	}
	return false
}

// Values returns every live value in slot order.
func (a *Array[T]) Values() []*T {
	defer a.lock()()
	out := make([]*T, 0, len(a.slots))
	for _, s := range a.slots {
		if v := s.value(); v != nil {
			out = append(out, v)
		}
	}
	return out
}
