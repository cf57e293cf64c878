package challenge

import (
	"fmt"
	"math/rand/v2"

	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// operandLimit returns the largest operand for a math problem of the given
// difficulty. The default matches the classic two-ints-up-to-ten sum.
func operandLimit(difficulty string) int {
	switch difficulty {
	case "medium":
		return 50
	case "hard":
		return 100
	default:
		return 10
	}
}

// Problem is a math wake-up challenge: the sum of two random integers.
// The solution is unexported so it never leaks through JSON responses.
type Problem struct {
	// Question is the rendered problem, e.g. "7 + 4 = ?".
	Question string `json:"question"`

	// solution is the expected answer.
	solution int
}

// NewProblem generates a fresh math problem for the task's difficulty.
func NewProblem(task domain.Task) Problem {
	limit := operandLimit(task.Difficulty)

	a := rand.IntN(limit) + 1
	b := rand.IntN(limit) + 1

	return Problem{
		Question: fmt.Sprintf("%d + %d = ?", a, b),
		solution: a + b,
	}
}

// Check reports whether the submitted answer solves the problem.
func (p Problem) Check(answer int) bool {
	return answer == p.solution
}

// MatchCode reports whether a scanned string dismisses a scan task.
// The comparison is an exact match against the stored code.
func MatchCode(task domain.Task, scanned string) bool {
	return task.RequiresScan() && scanned != "" && scanned == task.Code
}
