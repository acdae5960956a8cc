package weakarray

import (
	"fmt"
	"weak"
)

// ReferenceKind selects how a slot refers to its value.
type ReferenceKind int

const (
	// Weak slots do not keep their value alive. Once the garbage collector
	// reclaims the value the slot reads as nil.
	Weak ReferenceKind = iota
	// Strong slots hold an ordinary pointer and keep their value alive.
	Strong
)

func (k ReferenceKind) String() string {
	switch k {
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	default:
		return fmt.Sprintf("ReferenceKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ReferenceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ReferenceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseReferenceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseReferenceKind maps "weak" or "strong" to a ReferenceKind.
func ParseReferenceKind(s string) (ReferenceKind, error) {
	switch s {
	case "weak":
		return Weak, nil
	case "strong":
		return Strong, nil
	}
	return Weak, fmt.Errorf("%w: %q", ErrUnknownReferenceKind, s)
}

// slot is a single entry of an Array. The zero slot is empty.
type slot[T any] struct {
	weak   weak.Pointer[T]
	strong *T
}

func makeSlot[T any](kind ReferenceKind, v *T) slot[T] {
	if v == nil {
		return slot[T]{}
	}
	if kind == Strong {
		return slot[T]{strong: v}
	}
	return slot[T]{weak: weak.Make(v)}
}

// value returns the referent, or nil when the slot is empty or its referent
// has been collected.
func (s slot[T]) value() *T {
	if s.strong != nil {
		return s.strong
	}
	return s.weak.Value()
}
