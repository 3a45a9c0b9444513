package weakarray

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/weakarray/pkg/weakarray/observability"
)

// arrayConfig holds optional collaborators for an Array.
type arrayConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	// format is a func(*T) string for the array's element type, or nil.
	format any
	sep    string
}

func defaultArrayConfig() arrayConfig {
	return arrayConfig{
		metrics: observability.NoopMetrics{},
		sep:     DefaultSeparator,
	}
}

// defaultFormat prefers a String method and falls back to fmt's value form.
func defaultFormat[T any](p *T) string {
	if s, ok := any(p).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(*p)
}

// Option configures an Array.
type Option func(*arrayConfig)

// WithLogger sets the logger for slot and watcher lifecycle events.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *arrayConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *arrayConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithFormatter sets how Join and String render a live element. The function
// is never called with nil. Its element type must match the array's, or New
// panics.
//
// Example:
//
//	arr := weakarray.New(host, weakarray.WithFormatter(func(u *User) string {
//	    return u.Name
//	}))
func WithFormatter[T any](fn func(*T) string) Option {
	return func(c *arrayConfig) {
		if fn != nil {
			c.format = fn
		}
	}
}

// WithSeparator sets the separator String places between slots.
// Default: DefaultSeparator.
func WithSeparator(sep string) Option {
	return func(c *arrayConfig) {
		c.sep = sep
	}
}
