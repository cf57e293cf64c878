package challenge

import domain "github.com/nudnik/nudnik/internal/domain/alarm"

// Info describes the challenge a caller must complete to dismiss an alarm.
type Info struct {
	// Type is the alarm's wake-up task variant.
	Type domain.TaskType `json:"type"`
	// Question is the current math problem, present for math tasks only.
	Question string `json:"question,omitempty"`
}

// Attempt is a single dismissal attempt against a firing alarm.
type Attempt struct {
	// Answer is the submitted solution for a math task.
	Answer *int `json:"answer,omitempty"`
	// Code is the scanned string for QR and barcode tasks.
	Code string `json:"code,omitempty"`
}

// Outcome is the result of a dismissal attempt. Failed attempts are not
// errors: the alarm stays active and the caller may retry.
type Outcome struct {
	// Dismissed reports whether the attempt succeeded.
	Dismissed bool `json:"dismissed"`
	// Question carries the regenerated math problem after a wrong answer.
	Question string `json:"question,omitempty"`
}
