package lifetime

// Host delivers destruction notifications for objects of type T.
type Host[T any] interface {
	// Observe arranges for fn to be called once when target is destroyed.
	// It returns ErrInvalidTarget if target or fn is nil.
	Observe(target *T, fn func()) (Registration, error)
}

// Registration is a pending destruction notification.
type Registration interface {
	// Stop detaches the notification so it never fires.
	// Calling Stop more than once, or after the notification fired, is a no-op.
	Stop()
}
