package lifetime

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/google/uuid"

	"github.com/randalmurphal/weakarray/pkg/weakarray/observability"
)

// Watcher invokes a callback once when its target is destroyed.
type Watcher[T any] struct {
	id      string
	state   atomic.Int32
	logger  *slog.Logger
	metrics observability.MetricsRecorder

	mu     sync.Mutex // guards fields below
	target weak.Pointer[T]
	onZero func()
	reg    Registration
}

// Watch binds a new watcher to target. onZero runs exactly once when host
// reports target destroyed, unless the watcher is cancelled first.
//
// Returns ErrInvalidTarget if target or onZero is nil.
func Watch[T any](host Host[T], target *T, onZero func(), opts ...Option) (*Watcher[T], error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if target == nil || onZero == nil {
		return nil, ErrInvalidTarget
	}

	cfg := defaultWatchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &Watcher[T]{
		id:      uuid.New().String(),
		logger:  cfg.logger,
		metrics: cfg.metrics,
		target:  weak.Make(target),
		onZero:  onZero,
	}

	reg, err := host.Observe(target, w.fire)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.id, err)
	}

	w.mu.Lock()
	if w.State() == Armed {
		w.reg = reg
	}
	w.mu.Unlock()

	observability.LogWatcherArmed(w.logger, w.id)
	w.metrics.RecordWatcherArmed(context.Background())
	return w, nil
}

// ID returns the watcher's unique identifier.
func (w *Watcher[T]) ID() string {
	return w.id
}

// State returns the current lifecycle state.
func (w *Watcher[T]) State() State {
	return State(w.state.Load())
}

// Target returns the watched object, or nil once the watcher has reached a
// terminal state or the object has been collected.
func (w *Watcher[T]) Target() *T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target.Value()
}

// Cancel stops watching without invoking the callback. It reports whether
// this call performed the transition; later calls, and calls after the
// watcher fired, do nothing and return false.
func (w *Watcher[T]) Cancel() bool {
	if !w.state.CompareAndSwap(int32(Armed), int32(Cancelled)) {
		return false
	}

	w.mu.Lock()
	reg := w.reg
	w.reg = nil
	w.onZero = nil
	w.target = weak.Pointer[T]{}
	w.mu.Unlock()

	if reg != nil {
		reg.Stop()
	}

	observability.LogWatcherCancelled(w.logger, w.id)
	w.metrics.RecordWatcherDone(context.Background(), observability.OutcomeCancelled)
	return true
}

// fire is the destruction notification handed to the host.
func (w *Watcher[T]) fire() {
	if !w.state.CompareAndSwap(int32(Armed), int32(Fired)) {
		return
	}

	w.mu.Lock()
	fn := w.onZero
	w.onZero = nil
	w.reg = nil
	w.target = weak.Pointer[T]{}
	w.mu.Unlock()

	observability.LogWatcherFired(w.logger, w.id)
	w.metrics.RecordWatcherDone(context.Background(), observability.OutcomeFired)
	w.invoke(fn)
}

// invoke runs the callback, keeping a panic from escaping into the host.
func (w *Watcher[T]) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogCallbackPanic(w.logger, w.id, r, string(debug.Stack()))
			w.metrics.RecordCallbackPanic(context.Background())
		}
	}()
	fn()
}
