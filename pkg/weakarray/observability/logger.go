// Package observability provides logging and metrics for weakarray.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Every helper accepts a nil logger and does nothing in that case.
package observability

import (
	"log/slog"
)

// EnrichLogger adds component and watcher context to a logger.
// Returns a new logger with component and watcher_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "array", w.ID())
//	enriched.Debug("slot filled") // includes component, watcher_id
func EnrichLogger(logger *slog.Logger, component, watcherID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("component", component),
		slog.String("watcher_id", watcherID),
	)
}

// LogWatcherArmed logs a watcher being bound to its target.
func LogWatcherArmed(logger *slog.Logger, watcherID string) {
	if logger == nil {
		return
	}
	logger.Debug("watcher armed",
		slog.String("watcher_id", watcherID),
	)
}

// LogWatcherFired logs a watcher observing its target's destruction.
func LogWatcherFired(logger *slog.Logger, watcherID string) {
	if logger == nil {
		return
	}
	logger.Debug("watcher fired",
		slog.String("watcher_id", watcherID),
	)
}

// LogWatcherCancelled logs an explicit early release of a watcher.
func LogWatcherCancelled(logger *slog.Logger, watcherID string) {
	if logger == nil {
		return
	}
	logger.Debug("watcher cancelled",
		slog.String("watcher_id", watcherID),
	)
}

// LogCallbackPanic logs a recovered panic from a destruction callback.
func LogCallbackPanic(logger *slog.Logger, watcherID string, value any, stack string) {
	if logger == nil {
		return
	}
	logger.Error("destruction callback panicked",
		slog.String("watcher_id", watcherID),
		slog.Any("panic", value),
		slog.String("stack", stack),
	)
}

// LogSlotInvalidated logs a slot whose referent was destroyed.
func LogSlotInvalidated(logger *slog.Logger, watcherID string) {
	if logger == nil {
		return
	}
	logger.Debug("slot invalidated",
		slog.String("watcher_id", watcherID),
	)
}

// LogCompacted logs removal of absent slots.
func LogCompacted(logger *slog.Logger, removed, remaining int) {
	if logger == nil {
		return
	}
	logger.Info("array compacted",
		slog.Int("removed", removed),
		slog.Int("remaining", remaining),
	)
}
