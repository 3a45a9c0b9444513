package lifetime

import (
	"fmt"
	"slices"
	"sync"
)

// RefCount is a Host driven by explicit owning-reference counting.
//
// Each pointer carries a count of owners. Retain adds one, Release drops
// one, and the Release that brings the count to zero destroys the object:
// every observer registered for it is called, in registration order, on the
// releasing goroutine before Release returns.
//
// RefCount holds the pointers it tracks until they are destroyed; it models
// ownership, so use Runtime when the garbage collector should decide.
type RefCount[T any] struct {
	mu      sync.Mutex
	records map[*T]*refRecord
}

type refRecord struct {
	count     int
	observers []*refObserver
}

type refObserver struct {
	fn      func()
	stopped bool
}

// Compile-time interface check.
var _ Host[struct{}] = (*RefCount[struct{}])(nil)

// NewRefCount creates an empty reference-counting host.
func NewRefCount[T any]() *RefCount[T] {
	return &RefCount[T]{
		records: make(map[*T]*refRecord),
	}
}

// recordFor returns the record for p, creating it if needed.
// Must be called with h.mu held.
func (h *RefCount[T]) recordFor(p *T) *refRecord {
	rec, ok := h.records[p]
	if !ok {
		rec = &refRecord{}
		h.records[p] = rec
	}
	return rec
}

// Retain adds an owning reference to p and returns the new count.
// A nil pointer is ignored and reports zero.
func (h *RefCount[T]) Retain(p *T) int {
	if p == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	rec := h.recordFor(p)
	rec.count++
	return rec.count
}

// Release drops an owning reference to p and returns the remaining count.
// When the count reaches zero the object is destroyed and its observers are
// called before Release returns.
func (h *RefCount[T]) Release(p *T) (int, error) {
	if p == nil {
		return 0, ErrInvalidTarget
	}

	h.mu.Lock()
	rec, ok := h.records[p]
	if !ok || rec.count == 0 {
		h.mu.Unlock()
		return 0, fmt.Errorf("release %p: %w", p, ErrNotRetained)
	}
	rec.count--
	if rec.count > 0 {
		n := rec.count
		h.mu.Unlock()
		return n, nil
	}
	fns := h.destroyLocked(p, rec)
	h.mu.Unlock()

	notify(fns)
	return 0, nil
}

// Destroy destroys p regardless of its owner count. It reports whether p
// held any owning references.
func (h *RefCount[T]) Destroy(p *T) bool {
	if p == nil {
		return false
	}

	h.mu.Lock()
	rec, ok := h.records[p]
	if !ok {
		h.mu.Unlock()
		return false
	}
	fns := h.destroyLocked(p, rec)
	h.mu.Unlock()

	notify(fns)
	return true
}

// destroyLocked forgets p and returns the callbacks of its live observers.
// Must be called with h.mu held.
func (h *RefCount[T]) destroyLocked(p *T, rec *refRecord) []func() {
	delete(h.records, p)
	fns := make([]func(), 0, len(rec.observers))
	for _, o := range rec.observers {
		if o.stopped {
			continue
		}
		o.stopped = true
		fns = append(fns, o.fn)
	}
	rec.observers = nil
	return fns
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// Count returns the number of owning references to p.
func (h *RefCount[T]) Count(p *T) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.records[p]; ok {
		return rec.count
	}
	return 0
}

// Alive reports whether p holds at least one owning reference.
func (h *RefCount[T]) Alive(p *T) bool {
	return h.Count(p) > 0
}

// Tracked returns the number of objects holding owning references.
func (h *RefCount[T]) Tracked() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, rec := range h.records {
		if rec.count > 0 {
			n++
		}
	}
	return n
}

// Observe registers fn to be called when p is destroyed. p must hold at
// least one owning reference: a pointer that was never retained, or whose
// last owner is already gone, has no destruction left to report and is
// rejected with ErrInvalidTarget.
func (h *RefCount[T]) Observe(p *T, fn func()) (Registration, error) {
	if p == nil || fn == nil {
		return nil, ErrInvalidTarget
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	rec, ok := h.records[p]
	if !ok || rec.count == 0 {
		return nil, fmt.Errorf("observe %p: not retained: %w", p, ErrInvalidTarget)
	}
	obs := &refObserver{fn: fn}
	rec.observers = append(rec.observers, obs)
	return &refRegistration[T]{host: h, target: p, obs: obs}, nil
}

type refRegistration[T any] struct {
	host   *RefCount[T]
	target *T
	obs    *refObserver
}

func (r *refRegistration[T]) Stop() {
	h := r.host
	h.mu.Lock()
	defer h.mu.Unlock()
	if r.obs.stopped {
		return
	}
	r.obs.stopped = true

	rec, ok := h.records[r.target]
	if !ok {
		return
	}
	rec.observers = slices.DeleteFunc(rec.observers, func(o *refObserver) bool {
		return o == r.obs
	})
}
