package lifetime

// State is the position of a Watcher in its lifecycle.
type State int32

const (
	// Armed means the watcher is waiting for its target to be destroyed.
	Armed State = iota

	// Fired means the target was destroyed and the callback has been invoked.
	Fired

	// Cancelled means the watcher was released before its target died.
	Cancelled
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Fired || s == Cancelled
}
