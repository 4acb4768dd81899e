package engine

import (
	"errors"
	"fmt"
)

// ErrStepBudget is returned when a match call exceeds the pattern's
// StepLimit. Exceeding the budget is a genuine evaluation failure and never
// reported as a plain no-match.
var ErrStepBudget = errors.New("engine: step budget exhausted")

// AbortError wraps an error returned by an external consumer. A consumer
// error means the component could not evaluate at all, so the whole match
// call aborts; it is never converted into a backtrackable failure.
type AbortError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	return fmt.Sprintf("engine: component %q aborted the match: %v", e.Component, e.Err)
}

// Unwrap returns the consumer's error.
func (e *AbortError) Unwrap() error { return e.Err }
