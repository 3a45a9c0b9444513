package lifetime

import (
	"log/slog"

	"github.com/randalmurphal/weakarray/pkg/weakarray/observability"
)

// watchConfig holds optional collaborators for a Watcher.
type watchConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

func defaultWatchConfig() watchConfig {
	return watchConfig{
		metrics: observability.NoopMetrics{},
	}
}

// Option configures a Watcher.
type Option func(*watchConfig)

// WithLogger sets the logger used for lifecycle events.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *watchConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}
