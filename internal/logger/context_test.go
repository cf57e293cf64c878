package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestToContext_Roundtrip ensures a scoped logger is carried through the context.
func TestToContext_Roundtrip(t *testing.T) {
	t.Parallel()

	scoped := New(nil).Named("scoped")
	ctx := ToContext(context.Background(), scoped)

	require.Same(t, scoped, FromContext(ctx))

	// Deriving keeps returning a usable logger.
	named := WithName(ctx, "inner")
	require.NotNil(t, FromContext(named))
}
