package lifetime

import "errors"

var (
	// ErrInvalidTarget is returned when a watch is requested for a nil target
	// or with a nil callback.
	ErrInvalidTarget = errors.New("invalid watch target")

	// ErrNilHost is returned by Watch when no host is supplied.
	ErrNilHost = errors.New("lifetime host is nil")

	// ErrNotRetained is returned by RefCount.Release for a pointer that holds
	// no owning references.
	ErrNotRetained = errors.New("object not retained")
)
