package challenge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// TestNewProblem verifies the generated question matches its solution and
// respects the operand range of the default difficulty.
func TestNewProblem(t *testing.T) {
	t.Parallel()

	for range 50 {
		p := NewProblem(domain.Task{Type: domain.TaskMath})

		var a, b int
		_, err := fmt.Sscanf(p.Question, "%d + %d = ?", &a, &b)
		require.NoError(t, err)

		require.GreaterOrEqual(t, a, 1)
		require.LessOrEqual(t, a, 10)
		require.GreaterOrEqual(t, b, 1)
		require.LessOrEqual(t, b, 10)

		require.True(t, p.Check(a+b))
		require.False(t, p.Check(a+b+1))
	}
}

// TestNewProblem_Difficulty verifies harder difficulties widen the operand range.
func TestNewProblem_Difficulty(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		difficulty string
		limit      int
	}{
		{difficulty: "easy", limit: 10},
		{difficulty: "medium", limit: 50},
		{difficulty: "hard", limit: 100},
	} {
		for range 50 {
			p := NewProblem(domain.Task{Type: domain.TaskMath, Difficulty: tc.difficulty})

			var a, b int
			_, err := fmt.Sscanf(p.Question, "%d + %d = ?", &a, &b)
			require.NoError(t, err)
			require.LessOrEqual(t, a, tc.limit)
			require.LessOrEqual(t, b, tc.limit)
		}
	}
}

// TestMatchCode covers exact matching for scan tasks and rejection elsewhere.
func TestMatchCode(t *testing.T) {
	t.Parallel()

	qr := domain.Task{Type: domain.TaskQRCode, Code: "ABC123"}
	require.True(t, MatchCode(qr, "ABC123"))
	require.False(t, MatchCode(qr, "xyz"))
	require.False(t, MatchCode(qr, "abc123"))
	require.False(t, MatchCode(qr, ""))

	bar := domain.Task{Type: domain.TaskBarCode, Code: "4006381333931"}
	require.True(t, MatchCode(bar, "4006381333931"))

	// Non-scan tasks never match a code.
	require.False(t, MatchCode(domain.Task{Type: domain.TaskMath}, "anything"))
	require.False(t, MatchCode(domain.Task{Type: domain.TaskNone}, ""))
}
