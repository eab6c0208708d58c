// Package scheduling implements the cycle sequencing core: partitioning a
// membership window into contiguous cycles, re-sequencing cycles after a
// duration edit, and swapping the planned workload between two days.
//
// Every function here is a pure computation over the data passed in. Nothing
// reads the clock (callers pass "today"), nothing touches persistence, and on
// any error the inputs are left untouched: callers persist results only after
// a successful, fully recomputed return value.
package scheduling

import "errors"

var (
	// ErrInvalidRange means a membership window has its start after its end,
	// or a requested duration is not positive.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrMembershipExhausted means scheduling cannot extend past the
	// membership end date (no days left to place another cycle).
	ErrMembershipExhausted = errors.New("membership period exhausted")

	// ErrInvariantViolation means the caller supplied a cycle sequence that
	// is not contiguous/ordered. This is a caller bug, not a runtime error.
	ErrInvariantViolation = errors.New("cycle sequence invariant violation")

	// ErrInvalidSwapTarget means a swap names the same date twice, a date
	// outside the cycle window, or a rest day.
	ErrInvalidSwapTarget = errors.New("invalid swap target")

	// ErrAlreadyLogged means a swap would move a day that already carries a
	// completed workout log. Completed history is immutable.
	ErrAlreadyLogged = errors.New("date already has completed workout history")
)
