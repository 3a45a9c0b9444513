package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/weakarray/pkg/weakarray"
	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
	"github.com/randalmurphal/weakarray/pkg/weakarray/observability"
)

// HostKind selects where destruction notifications come from.
type HostKind string

// Supported hosts.
const (
	HostRefCount HostKind = "refcount"
	HostRuntime  HostKind = "runtime"
)

// ErrInvalidSettings indicates a configuration value that cannot be used.
var ErrInvalidSettings = errors.New("invalid weakarray settings")

// Settings is the decoded, validated form of a Config.
type Settings struct {
	// Host is the lifetime host backing the array.
	Host HostKind
	// LogLevel is the minimum level of lifecycle logs that reach the logger.
	LogLevel slog.Level
	// Metrics enables the OpenTelemetry recorder.
	Metrics bool
	// JoinSeparator is placed between slots when the array renders itself
	// with String.
	JoinSeparator string
}

// Default returns the settings used for missing keys: a refcount host,
// info-level logging, no metrics, and weakarray.DefaultSeparator.
func Default() Settings {
	return Settings{
		Host:          HostRefCount,
		LogLevel:      slog.LevelInfo,
		JoinSeparator: weakarray.DefaultSeparator,
	}
}

// Settings decodes the host, log_level, metrics, and join_separator keys.
func (c Config) Settings() (Settings, error) {
	s := Default()

	if c.Has("host") {
		v, ok := c.data["host"].(string)
		if !ok {
			return Settings{}, fmt.Errorf("%w: host must be a string, got %T", ErrInvalidSettings, c.data["host"])
		}
		s.Host = HostKind(v)
	}

	if c.Has("log_level") {
		v, ok := c.data["log_level"].(string)
		if !ok {
			return Settings{}, fmt.Errorf("%w: log_level must be a string, got %T", ErrInvalidSettings, c.data["log_level"])
		}
		if err := s.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Settings{}, fmt.Errorf("%w: log_level %q: %v", ErrInvalidSettings, v, err)
		}
	}

	if c.Has("metrics") {
		v, ok := c.data["metrics"].(bool)
		if !ok {
			return Settings{}, fmt.Errorf("%w: metrics must be a bool, got %T", ErrInvalidSettings, c.data["metrics"])
		}
		s.Metrics = v
	}

	if c.Has("join_separator") {
		v, ok := c.data["join_separator"].(string)
		if !ok {
			return Settings{}, fmt.Errorf("%w: join_separator must be a string, got %T", ErrInvalidSettings, c.data["join_separator"])
		}
		s.JoinSeparator = v
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects unknown host kinds.
func (s Settings) Validate() error {
	switch s.Host {
	case HostRefCount, HostRuntime:
		return nil
	default:
		return fmt.Errorf("%w: unknown host %q", ErrInvalidSettings, s.Host)
	}
}

// Options converts the settings into array options. logger may be nil.
func (s Settings) Options(logger *slog.Logger) []weakarray.Option {
	var metrics observability.MetricsRecorder = observability.NoopMetrics{}
	if s.Metrics {
		metrics = observability.NewMetricsRecorder()
	}

	opts := []weakarray.Option{
		weakarray.WithMetrics(metrics),
		weakarray.WithSeparator(s.JoinSeparator),
	}
	if logger != nil {
		opts = append(opts, weakarray.WithLogger(slog.New(&levelHandler{
			level: s.LogLevel,
			inner: logger.Handler(),
		})))
	}
	return opts
}

// NewArray builds an array and its host from settings.
func NewArray[T any](s Settings, logger *slog.Logger) (*weakarray.Array[T], lifetime.Host[T], error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	var host lifetime.Host[T]
	switch s.Host {
	case HostRuntime:
		host = lifetime.NewRuntime[T]()
	default:
		host = lifetime.NewRefCount[T]()
	}
	return weakarray.New(host, s.Options(logger)...), host, nil
}

// levelHandler drops records below level before they reach inner.
type levelHandler struct {
	level slog.Leveler
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}
