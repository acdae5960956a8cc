package weakarray

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is wrapped by every error returned for an index outside
// the range accepted by Insert, Replace or Remove.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrUnknownReferenceKind is returned by ParseReferenceKind.
var ErrUnknownReferenceKind = errors.New("unknown reference kind")

func indexError(op string, index, length int) error {
	return fmt.Errorf("weakarray: %s at %d with length %d: %w", op, index, length, ErrIndexOutOfRange)
}
