package alarm

import (
	"errors"
	"fmt"
)

// TaskType names the wake-up challenge gating alarm dismissal.
type TaskType string

const (
	// TaskNone dismisses the alarm without any challenge.
	TaskNone TaskType = "none"
	// TaskMath requires solving an addition problem.
	TaskMath TaskType = "math"
	// TaskQRCode requires scanning a QR code matching the stored code.
	TaskQRCode TaskType = "qrCode"
	// TaskBarCode requires scanning a barcode matching the stored code.
	TaskBarCode TaskType = "barCode"
)

var (
	// ErrUnknownTaskType is returned when a task type is none of the supported variants.
	ErrUnknownTaskType = errors.New("unknown task type")
	// ErrCodeRequired is returned when a scan task is configured without an expected code.
	ErrCodeRequired = errors.New("scan tasks require an expected code")
)

// Task configures the wake-up challenge for an alarm.
type Task struct {
	// Type selects the challenge variant.
	Type TaskType `json:"type"`
	// Difficulty optionally tunes the math challenge (easy, medium, hard).
	Difficulty string `json:"difficulty,omitempty"`
	// Code is the expected scan result for QR and barcode tasks.
	Code string `json:"code,omitempty"`
}

// RequiresScan reports whether dismissal needs a scanned code.
func (t Task) RequiresScan() bool {
	return t.Type == TaskQRCode || t.Type == TaskBarCode
}

// Validate checks the task configuration.
func (t Task) Validate() error {
	switch t.Type {
	case TaskNone, TaskMath:
		return nil
	case TaskQRCode, TaskBarCode:
		if t.Code == "" {
			return fmt.Errorf("%w: task type %q", ErrCodeRequired, t.Type)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTaskType, t.Type)
	}
}
