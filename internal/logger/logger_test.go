package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestWithLevel verifies the option pins a logger's level regardless of the
// level the logger was built with.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	quiet := New(zapcore.DebugLevel, WithLevel(zapcore.ErrorLevel)).Desugar()
	require.False(t, quiet.Core().Enabled(zapcore.InfoLevel))
	require.True(t, quiet.Core().Enabled(zapcore.ErrorLevel))

	verbose := New(zapcore.ErrorLevel, WithLevel(zapcore.DebugLevel)).Desugar()
	require.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}
