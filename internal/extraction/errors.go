package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when the recognizer backend is missing or
	// failed to initialize.
	ErrModelUnavailable = errors.New("entity recognition model unavailable")
	// ErrInferenceFailed is returned when a single recognizer call fails.
	ErrInferenceFailed = errors.New("entity recognition inference failed")
)

// InferenceError describes a failed recognizer call.
type InferenceError struct {
	Backend string
	Cause   error
}

func (e *InferenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s inference failed: %v", e.Backend, e.Cause)
	}
	return fmt.Sprintf("%s inference failed", e.Backend)
}

// Unwrap returns the underlying cause.
func (e *InferenceError) Unwrap() error {
	return e.Cause
}

// Is reports ErrInferenceFailed as a match so callers can classify with errors.Is.
func (e *InferenceError) Is(target error) bool {
	return target == ErrInferenceFailed
}
