package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for run loop operations.
var (
	// ErrInvalidState indicates a NaN or Inf appeared in the particle store.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrCanceled indicates the run was interrupted before its tick budget.
	ErrCanceled = errors.New("dynamo: run canceled by context")

	// ErrInvalidConfig indicates a loop configuration that cannot run.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// LoopError wraps an error with the tick it happened on.
type LoopError struct {
	Tick    int64
	Time    float64
	Wrapped error
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *LoopError) Unwrap() error {
	return e.Wrapped
}
