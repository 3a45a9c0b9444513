package weakarray

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
)

func TestRuntimeArray_CollectedElementReadsAbsent(t *testing.T) {
	metrics := &countingMetrics{}
	arr := NewRuntime[item](WithMetrics(metrics))
	b := newItem("B")

	func() {
		a := newItem("A")
		require.NoError(t, arr.Add(a))
	}()
	require.NoError(t, arr.Add(b))

	require.Eventually(t, func() bool {
		runtime.GC()
		return metrics.invalidated.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.Nil(t, at(t, arr, 0))
	assert.Same(t, b, at(t, arr, 1))
	assert.Equal(t, 2, arr.Len())
	runtime.KeepAlive(b)
}

func TestRuntimeArray_ArrayDoesNotKeepElementsAlive(t *testing.T) {
	arr := NewRuntime[item]()
	for i := range 16 {
		require.NoError(t, arr.Add(newItem(string(rune('a'+i)))))
	}

	require.Eventually(t, func() bool {
		runtime.GC()
		return arr.Live() == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 16, arr.Len())
	assert.Equal(t, "", arr.Join(","))
}

func TestRuntimeArray_RemovedElementDoesNotNotify(t *testing.T) {
	metrics := &countingMetrics{}
	arr := NewRuntime[item](WithMetrics(metrics))

	func() {
		a := newItem("A")
		require.NoError(t, arr.Add(a))
		arr.Remove(a)
	}()

	assert.Never(t, func() bool {
		runtime.GC()
		return metrics.fired.Load() > 0
	}, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 0, arr.Len())
	assert.Equal(t, int64(1), metrics.cancelled.Load())
}

// Notifications arrive on other goroutines while the owner keeps reading.
func TestArray_ConcurrentDestruction(t *testing.T) {
	arr, host := NewRefCounted[item]()
	const n = 64

	items := make([]*item, n)
	for i := range items {
		items[i] = retained(host, "x")
		mustAdd(t, arr, items[i])
	}

	var g errgroup.Group
	for i := range items {
		if i%2 == 1 {
			continue
		}
		g.Go(func() error {
			_, err := host.Release(items[i])
			return err
		})
	}
	g.Go(func() error {
		for range n {
			_ = arr.Live()
			_ = arr.Join(",")
		}
		return nil
	})
	require.NoError(t, g.Wait())

	assert.Equal(t, n, arr.Len())
	assert.Equal(t, n/2, arr.Live())
	for i, v := range arr.All() {
		if i%2 == 0 {
			assert.Nil(t, v)
		} else {
			assert.Same(t, items[i], v)
		}
	}
}

func TestArray_DestructionDuringMutation(t *testing.T) {
	arr, host := NewRefCounted[item]()
	a, b := retained(host, "A"), retained(host, "B")
	mustAdd(t, arr, a)
	mustAdd(t, arr, b)

	// Destroying c from inside arr2.Join triggers a chain that also destroys
	// a; both invalidations complete before Join returns.
	c := retained(host, "C")
	_, err := lifetime.Watch(host, c, func() {
		_, err := host.Release(a)
		assert.NoError(t, err)
	})
	require.NoError(t, err)

	arr2 := New[item](host, WithFormatter(func(it *item) string {
		if it == c {
			_, err := host.Release(c)
			assert.NoError(t, err)
		}
		return it.name
	}))
	require.NoError(t, arr2.Add(c))
	assert.Equal(t, "C", arr2.Join(","))

	assert.Equal(t, []*item{nil, b}, arr.Values())
	assert.Equal(t, []*item{nil}, arr2.Values())
}
