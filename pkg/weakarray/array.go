package weakarray

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"weak"

	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
	"github.com/randalmurphal/weakarray/pkg/weakarray/observability"
)

// NotFound is returned by IndexOf when no slot holds the object.
const NotFound = -1

// DefaultSeparator is the separator String uses unless WithSeparator is given.
const DefaultSeparator = " "

// Array is an ordered sequence of weakly held *T.
//
// A slot whose referent is destroyed keeps its position and reads as nil;
// the array's length only changes through explicit mutation.
//
// Array is not safe for concurrent mutation; callers serialize Add, Insert,
// Replace, Remove, RemoveAt, Compact, and Clear. Destruction notifications
// may arrive on any goroutine at any time, including in the middle of a
// mutation, and only ever touch the affected slot.
type Array[T any] struct {
	host    lifetime.Host[T]
	slots   []*slot[T]
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	format  func(*T) string
	sep     string
}

// New creates an empty array whose destruction notifications come from host.
// It panics if host is nil.
func New[T any](host lifetime.Host[T], opts ...Option) *Array[T] {
	if host == nil {
		panic("weakarray: nil lifetime host")
	}

	cfg := defaultArrayConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	format := defaultFormat[T]
	if cfg.format != nil {
		fn, ok := cfg.format.(func(*T) string)
		if !ok {
			panic(fmt.Sprintf("weakarray: formatter %T does not match element type *%T", cfg.format, *new(T)))
		}
		format = fn
	}

	return &Array[T]{
		host:    host,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		format:  format,
		sep:     cfg.sep,
	}
}

// NewRefCounted creates an array backed by a fresh RefCount host.
func NewRefCounted[T any](opts ...Option) (*Array[T], *lifetime.RefCount[T]) {
	host := lifetime.NewRefCount[T]()
	return New[T](host, opts...), host
}

// NewRuntime creates an array whose slots clear when the garbage collector
// reclaims their referents.
func NewRuntime[T any](opts ...Option) *Array[T] {
	return New[T](lifetime.NewRuntime[T](), opts...)
}

// newSlot builds a slot for obj. A nil obj yields an empty slot with no watcher.
func (a *Array[T]) newSlot(obj *T) (*slot[T], error) {
	s := &slot[T]{}
	if obj == nil {
		return s, nil
	}
	s.ref = weak.Make(obj)
	s.live = true

	logger, metrics := a.logger, a.metrics
	w, err := lifetime.Watch(a.host, obj, func() {
		if id, ok := s.invalidate(); ok {
			observability.LogSlotInvalidated(logger, id)
			metrics.RecordSlotInvalidated(context.Background())
		}
	}, lifetime.WithLogger(logger), lifetime.WithMetrics(metrics))
	if err != nil {
		return nil, fmt.Errorf("watch element: %w", err)
	}
	s.attach(w)
	return s, nil
}

func (a *Array[T]) checkIndex(op string, index, limit int) error {
	if index < 0 || index >= limit {
		return &IndexError{Op: op, Index: index, Len: len(a.slots)}
	}
	return nil
}

// Len returns the number of slots, including absent ones.
func (a *Array[T]) Len() int {
	return len(a.slots)
}

// Live returns the number of slots whose referent is still alive.
func (a *Array[T]) Live() int {
	n := 0
	for _, s := range a.slots {
		if s.load() != nil {
			n++
		}
	}
	return n
}

// Add appends obj. A nil obj appends an absent slot.
func (a *Array[T]) Add(obj *T) error {
	s, err := a.newSlot(obj)
	if err != nil {
		return err
	}
	a.slots = append(a.slots, s)
	return nil
}

// Insert places obj at index, shifting later slots right.
// index must satisfy 0 <= index <= Len().
func (a *Array[T]) Insert(obj *T, index int) error {
	if err := a.checkIndex("insert", index, len(a.slots)+1); err != nil {
		return err
	}
	s, err := a.newSlot(obj)
	if err != nil {
		return err
	}
	a.slots = slices.Insert(a.slots, index, s)
	return nil
}

// Replace stores obj at index. The previous slot's watcher is cancelled, so
// the old referent's later destruction has no effect on the array.
func (a *Array[T]) Replace(index int, obj *T) error {
	if err := a.checkIndex("replace", index, len(a.slots)); err != nil {
		return err
	}
	s, err := a.newSlot(obj)
	if err != nil {
		return err
	}
	old := a.slots[index]
	a.slots[index] = s
	old.release()
	return nil
}

// At returns the object at index, or nil if that slot is absent.
func (a *Array[T]) At(index int) (*T, error) {
	if err := a.checkIndex("at", index, len(a.slots)); err != nil {
		return nil, err
	}
	return a.slots[index].load(), nil
}

// Last returns the object in the final slot, or nil if that slot is absent.
// It returns ErrEmptyCollection when the array has no slots.
func (a *Array[T]) Last() (*T, error) {
	if len(a.slots) == 0 {
		return nil, ErrEmptyCollection
	}
	return a.slots[len(a.slots)-1].load(), nil
}

// Remove deletes the first slot holding obj. It does nothing if obj is nil
// or not present.
func (a *Array[T]) Remove(obj *T) {
	i := a.IndexOf(obj)
	if i == NotFound {
		return
	}
	a.slots[i].release()
	a.slots = slices.Delete(a.slots, i, i+1)
}

// RemoveAt deletes the slot at index, shifting later slots left.
func (a *Array[T]) RemoveAt(index int) error {
	if err := a.checkIndex("remove", index, len(a.slots)); err != nil {
		return err
	}
	a.slots[index].release()
	a.slots = slices.Delete(a.slots, index, index+1)
	return nil
}

// IndexOf returns the position of the first slot holding obj by identity,
// or NotFound. Absent slots never match.
func (a *Array[T]) IndexOf(obj *T) int {
	if obj == nil {
		return NotFound
	}
	for i, s := range a.slots {
		if s.load() == obj {
			return i
		}
	}
	return NotFound
}

// Contains reports whether any slot holds obj.
func (a *Array[T]) Contains(obj *T) bool {
	return a.IndexOf(obj) != NotFound
}

// Join renders every live element with the array's formatter and joins them
// with sep. Absent slots contribute nothing, not even a separator.
func (a *Array[T]) Join(sep string) string {
	parts := make([]string, 0, len(a.slots))
	for _, s := range a.slots {
		if p := s.load(); p != nil {
			parts = append(parts, a.format(p))
		}
	}
	return strings.Join(parts, sep)
}

// Values returns a snapshot of the array, with nil for absent slots.
func (a *Array[T]) Values() []*T {
	out := make([]*T, len(a.slots))
	for i, s := range a.slots {
		out[i] = s.load()
	}
	return out
}

// All iterates over a snapshot of the slots taken when iteration starts.
// Each element is read as it is reached, so one that dies mid-iteration is
// yielded as nil.
func (a *Array[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		snapshot := slices.Clone(a.slots)
		for i, s := range snapshot {
			if !yield(i, s.load()) {
				return
			}
		}
	}
}

// Compact removes every absent slot, preserving the order of the rest, and
// returns how many were removed.
func (a *Array[T]) Compact() int {
	before := len(a.slots)
	a.slots = slices.DeleteFunc(a.slots, func(s *slot[T]) bool {
		if s.load() != nil {
			return false
		}
		s.release()
		return true
	})
	removed := before - len(a.slots)

	observability.LogCompacted(a.logger, removed, len(a.slots))
	a.metrics.RecordCompaction(context.Background(), removed)
	return removed
}

// Clear cancels every watcher and empties the array.
func (a *Array[T]) Clear() {
	for _, s := range a.slots {
		s.release()
	}
	a.slots = nil
}

// String renders the array as "[a b <nil>]" for debugging, with slots
// separated by the configured separator.
func (a *Array[T]) String() string {
	parts := make([]string, len(a.slots))
	for i, s := range a.slots {
		if p := s.load(); p != nil {
			parts[i] = a.format(p)
		} else {
			parts[i] = "<nil>"
		}
	}
	return "[" + strings.Join(parts, a.sep) + "]"
}
