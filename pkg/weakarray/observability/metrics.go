package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Watcher outcome labels used on the watcher counters.
const (
	OutcomeFired     = "fired"
	OutcomeCancelled = "cancelled"
)

// MetricsRecorder records weakarray metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordWatcherArmed records a watcher bound to a live target.
	RecordWatcherArmed(ctx context.Context)

	// RecordWatcherDone records a watcher reaching a terminal state.
	// outcome is OutcomeFired or OutcomeCancelled.
	RecordWatcherDone(ctx context.Context, outcome string)

	// RecordCallbackPanic records a recovered panic in a destruction callback.
	RecordCallbackPanic(ctx context.Context)

	// RecordSlotInvalidated records a slot cleared by its referent's destruction.
	RecordSlotInvalidated(ctx context.Context)

	// RecordCompaction records a compaction pass and how many slots it removed.
	RecordCompaction(ctx context.Context, removed int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	watchersArmed    metric.Int64Counter
	watchersFired    metric.Int64Counter
	watchersCanceled metric.Int64Counter
	callbackPanics   metric.Int64Counter
	slotsInvalidated metric.Int64Counter
	compacted        metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("weakarray")

	armed, err := meter.Int64Counter("weakarray.watcher.armed",
		metric.WithDescription("Number of watchers bound to a live target"),
	)
	if err != nil {
		return nil, err
	}

	fired, err := meter.Int64Counter("weakarray.watcher.fired",
		metric.WithDescription("Number of watchers whose target was destroyed"),
	)
	if err != nil {
		return nil, err
	}

	cancelled, err := meter.Int64Counter("weakarray.watcher.cancelled",
		metric.WithDescription("Number of watchers released before their target died"),
	)
	if err != nil {
		return nil, err
	}

	panics, err := meter.Int64Counter("weakarray.watcher.panics",
		metric.WithDescription("Number of recovered destruction callback panics"),
	)
	if err != nil {
		return nil, err
	}

	invalidated, err := meter.Int64Counter("weakarray.slot.invalidated",
		metric.WithDescription("Number of slots cleared by referent destruction"),
	)
	if err != nil {
		return nil, err
	}

	compacted, err := meter.Int64Histogram("weakarray.array.compacted",
		metric.WithDescription("Absent slots removed per compaction"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		watchersArmed:    armed,
		watchersFired:    fired,
		watchersCanceled: cancelled,
		callbackPanics:   panics,
		slotsInvalidated: invalidated,
		compacted:        compacted,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordWatcherArmed(ctx context.Context) {
	m.watchersArmed.Add(ctx, 1)
}

func (m *otelMetrics) RecordWatcherDone(ctx context.Context, outcome string) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	switch outcome {
	case OutcomeFired:
		m.watchersFired.Add(ctx, 1, attrs)
	case OutcomeCancelled:
		m.watchersCanceled.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordCallbackPanic(ctx context.Context) {
	m.callbackPanics.Add(ctx, 1)
}

func (m *otelMetrics) RecordSlotInvalidated(ctx context.Context) {
	m.slotsInvalidated.Add(ctx, 1)
}

func (m *otelMetrics) RecordCompaction(ctx context.Context, removed int) {
	m.compacted.Record(ctx, int64(removed))
}
