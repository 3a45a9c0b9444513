package weakarray

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
)

// item is large enough to get its own allocation, so runtime cleanups are
// attached to it alone.
type item struct {
	name string
	pad  [64]byte
}

func (i *item) String() string { return i.name }

func newItem(name string) *item {
	return &item{name: name}
}

// retained creates an item already holding one owning reference in host.
func retained(host *lifetime.RefCount[item], name string) *item {
	it := newItem(name)
	host.Retain(it)
	return it
}

// destroy drops the last owning reference to it.
func destroy(t *testing.T, host *lifetime.RefCount[item], it *item) {
	t.Helper()
	n, err := host.Release(it)
	require.NoError(t, err)
	require.Equal(t, 0, n, "item %s still has owners", it.name)
}

func mustAdd(t *testing.T, arr *Array[item], it *item) {
	t.Helper()
	require.NoError(t, arr.Add(it))
}

func at(t *testing.T, arr *Array[item], i int) *item {
	t.Helper()
	v, err := arr.At(i)
	require.NoError(t, err)
	return v
}

// countingMetrics tallies recorder calls.
type countingMetrics struct {
	armed, fired, cancelled, panics, invalidated, compacted atomic.Int64
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

func (m *countingMetrics) RecordCompaction(_ context.Context, removed int) {
	m.compacted.Add(int64(removed))
}
