package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordWatcherArmed(ctx)
		m.RecordWatcherDone(ctx, OutcomeFired)
		m.RecordWatcherDone(ctx, OutcomeCancelled)
		m.RecordCallbackPanic(ctx)
		m.RecordSlotInvalidated(ctx)
		m.RecordCompaction(ctx, 0)
	})
}
