package observability

import "context"

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordWatcherArmed does nothing.
func (NoopMetrics) RecordWatcherArmed(_ context.Context) {}

// RecordWatcherDone does nothing.
func (NoopMetrics) RecordWatcherDone(_ context.Context, _ string) {}

// RecordCallbackPanic does nothing.
func (NoopMetrics) RecordCallbackPanic(_ context.Context) {}

// RecordSlotInvalidated does nothing.
func (NoopMetrics) RecordSlotInvalidated(_ context.Context) {}

// RecordCompaction does nothing.
func (NoopMetrics) RecordCompaction(_ context.Context, _ int) {}
