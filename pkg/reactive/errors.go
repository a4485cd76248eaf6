package reactive

import (
	"errors"
	"fmt"
)

// ErrStructuralViolation is the sentinel for misuse of the API's call-pattern
// contract: constructing a cell while an effect is running, starting an effect
// while one is already running (directly or via derived-cell construction), or
// writing to a derived cell. Structural violations are detected eagerly,
// before any state mutation; the caller must fix the call pattern.
//
// Match with errors.Is; inspect details via errors.As on *StructuralError.
var ErrStructuralViolation = errors.New("reactive: structural violation")

// ErrRunawayUpdate is the sentinel for a cell whose propagating-write counter
// exceeded PropagationLimit, signaling an unbounded circular update chain.
// The failing cell is left permanently tripped: every later write to it fails
// the same way. Subscriptions established before the trip are retained.
//
// Match with errors.Is; inspect details via errors.As on *RunawayError.
var ErrRunawayUpdate = errors.New("reactive: runaway update")

// StructuralError describes a call-pattern violation.
type StructuralError struct {
	// Op is the operation that was misused, e.g. "NewSignal".
	Op string

	// Reason explains the violated rule.
	Reason string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("reactive: %s: %s", e.Op, e.Reason)
}

// Unwrap maps every StructuralError to ErrStructuralViolation.
func (e *StructuralError) Unwrap() error {
	return ErrStructuralViolation
}

// RunawayError reports a runaway-guard trip.
type RunawayError struct {
	// CellID identifies the tripped cell.
	CellID uint64

	// Rounds is the propagation-round count at the time of the trip,
	// always above PropagationLimit.
	Rounds int
}

// Error implements the error interface.
func (e *RunawayError) Error() string {
	return fmt.Sprintf("reactive: runaway update on cell %d after %d propagation rounds", e.CellID, e.Rounds)
}

// Unwrap maps every RunawayError to ErrRunawayUpdate.
func (e *RunawayError) Unwrap() error {
	return ErrRunawayUpdate
}

// trapRunaway converts a runaway trip unwinding out of a depth-zero entry
// point back into its error value. Any other panic continues unwinding.
// Must be invoked directly by defer.
func trapRunaway(err *error) {
	r := recover()
	if r == nil {
		return
	}
	rerr, ok := r.(*RunawayError)
	if !ok {
		panic(r)
	}
	*err = rerr
}
