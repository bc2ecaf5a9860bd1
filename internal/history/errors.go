package history

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks a store access that could not be completed
// (connection failure, timeout). Maintenance components never retry it.
var ErrStoreUnavailable = errors.New("history store unavailable")

// ErrReconciliationIncomplete marks a repair pass that left duplicates
// behind. Repeated corruption is an operational signal, not something to
// mask with retries, so a single pass reports rather than loops.
var ErrReconciliationIncomplete = errors.New("reconciliation incomplete")

// WriteExhaustedError is returned when every insert attempt hit an id
// collision. The last underlying store error is attached.
type WriteExhaustedError struct {
	Attempts int
	LastID   int64
	Err      error
}

func (e *WriteExhaustedError) Error() string {
	return fmt.Sprintf("write exhausted after %d attempts (last id %d): %v", e.Attempts, e.LastID, e.Err)
}

func (e *WriteExhaustedError) Unwrap() error {
	return e.Err
}
