package weakarray_test

import (
	"runtime"
	"testing"

	"github.com/plus3/weakref/weakarray"
)

// Object is the referent type used by the tests. The pointer field keeps
// allocations out of the tiny allocator so each one is reclaimed on its own.
type Object struct {
	ID   int
	Next *Object
}

func newObjects(ids ...int) []*Object {
	objs := make([]*Object, len(ids))
	for i, id := range ids {
		objs[i] = &Object{ID: id}
	}
	return objs
}

// addTransient appends a value that nothing else references.
func addTransient(a *weakarray.Array[Object], id int) {
	a.Add(&Object{ID: id})
}

// collectUntil runs the garbage collector until every listed slot reads as
// empty.
func collectUntil(t *testing.T, a *weakarray.Array[Object], indices ...int) {
	t.Helper()
	for attempt := 0; attempt < 20; attempt++ {
		runtime.GC()
		dead := true
		for _, i := range indices {
			if a.Get(i) != nil {
				dead = false
				break
			}
		}
		if dead {
			return
		}
	}
	t.Fatalf("slots %v were not collected", indices)
}

func ids(values []*Object) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, v.ID)
	}
	return out
}

func isZero(v *Object) bool { return v.ID == 0 }
