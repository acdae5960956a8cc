// Package weakarray provides Array, an ordered list of weak references.
//
// An Array never keeps its values alive. When the garbage collector reclaims
// a value the slot holding it reads as nil until the array is compacted, at
// which point the slot is dropped and every later index shifts down. Slots use
// classic slice semantics: Insert and Remove shift indices, Replace does not.
//
// Compaction runs automatically once the number of mutations since the last
// compaction exceeds the array's compact cycle, and may be run at any time with
// Compact or CompactMap.
package weakarray

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/kamstrup/intmap"
)

// DefaultCompactCycle is the compact cycle used by NewDefault.
const DefaultCompactCycle = 10

// Array is a list of references to values of type T.
//
// An Array is not safe for concurrent use unless thread safety is enabled,
// either with WithThreadSafe or SetThreadSafe. Predicates passed to an Array
// run while it is locked and must not call back into the same Array.
type Array[T any] struct {
	mu         sync.Mutex
	threadSafe atomic.Bool

	kind   ReferenceKind
	slots  []slot[T]
	logger *logiface.Logger[logiface.Event]

	compactCycle int
	operations   int
	compactions  int
}

// Option configures an Array at construction.
type Option func(*options)

type options struct {
	threadSafe bool
	logger     *logiface.Logger[logiface.Event]
}

// WithThreadSafe makes every operation acquire the array's mutex.
func WithThreadSafe(enabled bool) Option {
	return func(o *options) {
		o.threadSafe = enabled
	}
}

// WithLogger sets the logger used to report compactions at debug level.
// A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates an empty Array. Kinds other than Strong are treated as Weak.
// A compactCycle of zero or below disables automatic compaction.
func New[T any](kind ReferenceKind, compactCycle int, opts ...Option) *Array[T] {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if kind != Strong {
		kind = Weak
	}

	a := &Array[T]{
		kind:         kind,
		logger:       o.logger,
		compactCycle: compactCycle,
	}
	a.threadSafe.Store(o.threadSafe)
	return a
}

// NewDefault creates an empty weak Array using DefaultCompactCycle.
func NewDefault[T any](opts ...Option) *Array[T] {
	return New[T](Weak, DefaultCompactCycle, opts...)
}

func noop() {}

// lock acquires the mutex when thread safety is enabled and returns the
// matching release. Callers defer the result, so predicate panics still unlock.
func (a *Array[T]) lock() func() {
	if !a.threadSafe.Load() {
		return noop
	}
	a.mu.Lock()
	return a.mu.Unlock
}

// ThreadSafe reports whether operations are serialized by the array's mutex.
func (a *Array[T]) ThreadSafe() bool {
	return a.threadSafe.Load()
}

// SetThreadSafe enables or disables locking. It must not be called while
// other goroutines are using the array with locking disabled.
func (a *Array[T]) SetThreadSafe(enabled bool) {
	if enabled {
		a.threadSafe.Store(true)
		return
	}
	// wait for any in-flight locked call to finish
	a.mu.Lock()
	a.threadSafe.Store(false)
	a.mu.Unlock()
}

// Kind returns the reference kind of the array's slots.
func (a *Array[T]) Kind() ReferenceKind {
	return a.kind
}

// CompactCycle returns the automatic compaction threshold.
func (a *Array[T]) CompactCycle() int {
	defer a.lock()()
	return a.compactCycle
}

// SetCompactCycle changes the automatic compaction threshold. Zero or below
// disables automatic compaction. The new threshold applies from the next
// mutation.
func (a *Array[T]) SetCompactCycle(n int) {
	defer a.lock()()
	a.compactCycle = n
}

// Operations returns the number of mutations since the last compaction.
func (a *Array[T]) Operations() int {
	defer a.lock()()
	return a.operations
}

// Compact drops every empty slot, shifting the remaining slots down, and
// returns the number of slots removed. Indices obtained before the call are
// invalidated.
func (a *Array[T]) Compact() int {
	defer a.lock()()
	return a.compact(nil)
}

// CompactMap compacts the array like Compact and returns the new index of
// every surviving slot keyed by its index before compaction.
func (a *Array[T]) CompactMap() *intmap.Map[int, int] {
	defer a.lock()()
	remap := intmap.New[int, int](len(a.slots))
	a.compact(remap)
	return remap
}

// mutated records n structural mutations and compacts when the cycle is
// exceeded. The caller holds the lock.
func (a *Array[T]) mutated(n int) {
	a.operations += n
	if a.compactCycle > 0 && a.operations > a.compactCycle {
		a.compact(nil)
	}
}

func (a *Array[T]) compact(remap *intmap.Map[int, int]) int {
	before := len(a.slots)

	writePos := 0
	for readPos, s := range a.slots {
		if s.value() == nil {
			continue
		}
		if remap != nil {
			remap.Put(readPos, writePos)
		}
		a.slots[writePos] = s
		writePos++
	}
	clear(a.slots[writePos:])

	if writePos < cap(a.slots)/4 {
		// release the backing array once it is mostly unused
		shrunk := make([]slot[T], writePos)
		copy(shrunk, a.slots[:writePos])
		a.slots = shrunk
	} else {
		a.slots = a.slots[:writePos]
	}

	a.operations = 0
	a.compactions++

	a.logger.Debug().
		Int(`before`, before).
		Int(`after`, writePos).
		Int(`compactions`, a.compactions).
		Log(`weak array compacted`)

	return before - writePos
}
