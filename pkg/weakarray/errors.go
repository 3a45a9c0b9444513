package weakarray

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
)

// Sentinel errors for array operations.
var (
	// ErrIndexOutOfRange indicates an index outside the valid range for the operation.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyCollection indicates Last was called on an empty array.
	ErrEmptyCollection = errors.New("collection is empty")

	// ErrInvalidTarget indicates a watch was requested for a nil object.
	// It is the same value as lifetime.ErrInvalidTarget.
	ErrInvalidTarget = lifetime.ErrInvalidTarget
)

// IndexError reports a bad index passed to an index-based operation.
type IndexError struct {
	// Op is the operation that was called ("insert", "at", ...).
	Op string
	// Index is the offending index.
	Index int
	// Len is the array length at the time of the call.
	Len int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range with length %d", e.Op, e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange for errors.Is support.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
