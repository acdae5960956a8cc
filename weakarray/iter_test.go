package weakarray_test

import (
	"iter"
	"runtime"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/plus3/weakref/weakarray"
	"github.com/stretchr/testify/assert"
)

func TestAllEmpty(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	assert.Empty(t, slices.Collect(a.All()))

	a.AddAll(nil, nil)
	assert.Empty(t, slices.Collect(a.All()))
}

func TestAllSkipsDeadSlots(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	keep := newObjects(0, 2)
	a.Add(keep[0])
	addTransient(a, 1)
	a.Add(keep[1])
	addTransient(a, 3)

	collectUntil(t, a, 1, 3)

	if diff := cmp.Diff([]int{0, 2}, ids(slices.Collect(a.All()))); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, a.Len())
	runtime.KeepAlive(keep)
}

func TestAllSkipsManyConsecutiveEmptySlots(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	objs := newObjects(1, 2)
	a.Add(objs[0])
	for i := 0; i < 100_000; i++ {
		a.Add(nil)
	}
	a.Add(objs[1])

	if diff := cmp.Diff([]int{1, 2}, ids(slices.Collect(a.All()))); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	runtime.KeepAlive(objs)
}

func TestAllIsRestartable(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	objs := newObjects(1, 2, 3)
	a.AddAll(objs...)

	seq := a.All()
	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, ids(first), ids(second))
	assert.Len(t, first, 3)
	runtime.KeepAlive(objs)
}

func TestAllEarlyBreak(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	objs := newObjects(1, 2, 3)
	a.AddAll(objs...)

	var seen []int
	for v := range a.All() {
		seen = append(seen, v.ID)
		if v.ID == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, seen)
	runtime.KeepAlive(objs)
}

func TestAllSeesAppendsDuringIteration(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0, weakarray.WithThreadSafe(true))
	objs := newObjects(1, 2, 3)
	a.Add(objs[0])

	var seen []int
	for v := range a.All() {
		seen = append(seen, v.ID)
		if v.ID < 3 {
			a.Add(objs[v.ID])
		}
	}
	assert.Equal(t, []int{1, 2, 3}, seen)
	runtime.KeepAlive(objs)
}

func TestEntries(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	objs := newObjects(1, 2)
	a.Add(nil)
	a.Add(objs[0])
	a.Add(nil)
	a.Add(objs[1])

	got := map[int]int{}
	for i, v := range a.Entries() {
		got[i] = v.ID
	}
	assert.Equal(t, map[int]int{1: 1, 3: 2}, got)
	runtime.KeepAlive(objs)
}

func TestAllPull(t *testing.T) {
	a := weakarray.New[Object](weakarray.Weak, 0)
	objs := newObjects(1, 2)
	a.Add(nil)
	a.AddAll(objs...)

	next, stop := iter.Pull(a.All())
	defer stop()

	v, ok := next()
	assert.True(t, ok)
	assert.Same(t, objs[0], v)
	v, ok = next()
	assert.True(t, ok)
	assert.Same(t, objs[1], v)
	_, ok = next()
	assert.False(t, ok)
}
