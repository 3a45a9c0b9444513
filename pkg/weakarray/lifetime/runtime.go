package lifetime

import (
	"runtime"
	"sync"
)

// Runtime is a Host driven by the garbage collector.
//
// Observe attaches a cleanup with runtime.AddCleanup; the callback runs on
// the runtime's cleanup goroutine after the target becomes unreachable. The
// usual AddCleanup caveats apply: timing is up to the collector, cleanups
// may not run before the program exits, and objects that share an
// allocation (tiny or zero-sized values) may never be reported.
type Runtime[T any] struct{}

// Compile-time interface check.
var _ Host[struct{}] = Runtime[struct{}]{}

// NewRuntime returns a garbage-collector driven host.
func NewRuntime[T any]() Runtime[T] {
	return Runtime[T]{}
}

// Observe registers fn to run after target is collected.
// fn must not reference target, or target will never become unreachable.
func (Runtime[T]) Observe(target *T, fn func()) (Registration, error) {
	if target == nil || fn == nil {
		return nil, ErrInvalidTarget
	}
	c := runtime.AddCleanup(target, func(f func()) { f() }, fn)
	return &cleanupRegistration{cleanup: c}, nil
}

type cleanupRegistration struct {
	once    sync.Once
	cleanup runtime.Cleanup
}

func (r *cleanupRegistration) Stop() {
	r.once.Do(r.cleanup.Stop)
}
