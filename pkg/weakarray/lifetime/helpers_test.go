package lifetime

import (
	"context"
	"sync"
	"sync/atomic"
)

// payload is large enough to get its own allocation, so runtime cleanups
// are attached to it alone.
type payload struct {
	name string
	pad  [128]byte
}

func newPayload(name string) *payload {
	return &payload{name: name}
}

// manualHost records registrations and delivers them on demand, including
// more than once, to exercise duplicate notifications.
type manualHost[T any] struct {
	mu      sync.Mutex
	fns     []func()
	stopped atomic.Int32
	err     error
}

func (h *manualHost[T]) Observe(_ *T, fn func()) (Registration, error) {
	if h.err != nil {
		return nil, h.err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
	return manualRegistration{stopped: &h.stopped}, nil
}

func (h *manualHost[T]) deliver() {
	h.mu.Lock()
	fns := append([]func(){}, h.fns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type manualRegistration struct {
	stopped *atomic.Int32
}

func (r manualRegistration) Stop() {
	r.stopped.Add(1)
}

// countingMetrics tallies recorder calls.
type countingMetrics struct {
	armed, fired, cancelled, panics, invalidated, compactions atomic.Int64
}

func (m *countingMetrics) RecordWatcherArmed(context.Context) { m.armed.Add(1) }

func (m *countingMetrics) RecordWatcherDone(_ context.Context, outcome string) {
	switch outcome {
	case "fired":
		m.fired.Add(1)
	case "cancelled":
		m.cancelled.Add(1)
	}
}

func (m *countingMetrics) RecordCallbackPanic(context.Context)   { m.panics.Add(1) }
func (m *countingMetrics) RecordSlotInvalidated(context.Context) { m.invalidated.Add(1) }
func (m *countingMetrics) RecordCompaction(context.Context, int) { m.compactions.Add(1) }
