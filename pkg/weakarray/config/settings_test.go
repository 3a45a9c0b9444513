package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/weakarray/pkg/weakarray/lifetime"
)

type conn struct {
	name string
	pad  [64]byte
}

func (c *conn) String() string { return c.name }

func TestSettings_Defaults(t *testing.T) {
	s, err := New(nil).Settings()
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, HostRefCount, s.Host)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.False(t, s.Metrics)
	assert.Equal(t, " ", s.JoinSeparator)
}

func TestSettings_Decode(t *testing.T) {
	cfg, err := FromYAML([]byte("host: runtime\nlog_level: DEBUG\nmetrics: true\njoin_separator: \" | \"\n"))
	require.NoError(t, err)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, HostRuntime, s.Host)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.True(t, s.Metrics)
	assert.Equal(t, " | ", s.JoinSeparator)
}

func TestSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"unknown host", map[string]any{"host": "arc"}},
		{"host not a string", map[string]any{"host": 1}},
		{"bad log level", map[string]any{"log_level": "loud"}},
		{"log level not a string", map[string]any{"log_level": true}},
		{"metrics not a bool", map[string]any{"metrics": "yes"}},
		{"join separator not a string", map[string]any{"join_separator": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.data).Settings()
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestNewArray(t *testing.T) {
	t.Run("refcount host", func(t *testing.T) {
		arr, host, err := NewArray[conn](Default(), nil)
		require.NoError(t, err)

		rc, ok := host.(*lifetime.RefCount[conn])
		require.True(t, ok)

		c := &conn{name: "a"}
		rc.Retain(c)
		require.NoError(t, arr.Add(c))
		rc.Destroy(c)

		v, err := arr.At(0)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("runtime host", func(t *testing.T) {
		s := Default()
		s.Host = HostRuntime

		arr, host, err := NewArray[conn](s, nil)
		require.NoError(t, err)
		require.NotNil(t, arr)
		_, ok := host.(lifetime.Runtime[conn])
		assert.True(t, ok)
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, _, err := NewArray[conn](Settings{Host: "other"}, nil)
		assert.ErrorIs(t, err, ErrInvalidSettings)
	})
}

func TestOptions_JoinSeparatorReachesArray(t *testing.T) {
	s := Default()
	s.JoinSeparator = ", "

	arr, host, err := NewArray[conn](s, nil)
	require.NoError(t, err)
	rc := host.(*lifetime.RefCount[conn])

	c := &conn{name: "a"}
	rc.Retain(c)
	require.NoError(t, arr.Add(nil))
	require.NoError(t, arr.Add(c))
	require.NoError(t, arr.Add(nil))

	assert.Equal(t, "[<nil>, a, <nil>]", arr.String())
}

func TestOptions_LogLevelFiltersLifecycleLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	run := func(level slog.Level) string {
		buf.Reset()
		s := Default()
		s.LogLevel = level

		arr, host, err := NewArray[conn](s, logger)
		require.NoError(t, err)
		rc := host.(*lifetime.RefCount[conn])

		c := &conn{name: "a"}
		rc.Retain(c)
		require.NoError(t, arr.Add(c))
		rc.Destroy(c)
		return buf.String()
	}

	assert.Contains(t, run(slog.LevelDebug), "slot invalidated")
	assert.NotContains(t, run(slog.LevelInfo), "slot invalidated")
}
