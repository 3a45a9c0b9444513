package weakarray

import (
	"sync"
	"weak"

	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
)

// slot is one position in an Array. Watcher callbacks are bound to the slot
// itself, so inserts and removals elsewhere never misdirect them.
//
// live is true iff the slot was filled with an object that has not been
// invalidated, replaced, or removed; watcher is non-nil only while live.
type slot[T any] struct {
	mu      sync.Mutex
	ref     weak.Pointer[T]
	live    bool
	watcher *lifetime.Watcher[T]
}

// load returns the referent, or nil if the slot is empty or its referent died.
func (s *slot[T]) load() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live {
		return nil
	}
	return s.ref.Value()
}

// attach stores w unless the slot was invalidated while w was being created.
func (s *slot[T]) attach(w *lifetime.Watcher[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live {
		s.watcher = w
	}
}

// invalidate empties the slot after its referent was destroyed. It returns
// the id of the watcher that fired and whether anything changed.
func (s *slot[T]) invalidate() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live {
		return "", false
	}
	var id string
	if s.watcher != nil {
		id = s.watcher.ID()
	}
	s.live = false
	s.ref = weak.Pointer[T]{}
	s.watcher = nil
	return id, true
}

// release cancels the slot's watcher and empties it. Called before a slot is
// discarded or overwritten.
func (s *slot[T]) release() {
	s.mu.Lock()
	w := s.watcher
	s.live = false
	s.ref = weak.Pointer[T]{}
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		w.Cancel()
	}
}
