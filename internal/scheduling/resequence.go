package scheduling

import (
	"fmt"

	"fitbro/gym-app/internal/domain"
)

// ResequenceResult carries the recomputed sequence plus any trailing cycles
// that the edit pushed completely past the membership end date. Dropped
// cycles are surfaced, never silently clamped away: the caller decides what
// to do with them (the cycle service soft-deletes them).
type ResequenceResult struct {
	Cycles  []domain.Cycle
	Dropped []domain.Cycle
}

// Resequence applies a duration edit to cycles[editedIndex] and propagates
// the shift forward so the sequence stays contiguous, ordered, and bounded
// by membershipEnd. The edited cycle keeps its own start date and takes the
// new duration; every following cycle starts the day after its predecessor
// ends and keeps its previously recorded duration, each clipped so no end
// date passes membershipEnd. A cycle pushed entirely past the membership end
// is returned in Dropped rather than kept at zero length. Statuses are
// re-derived from today after the date changes.
//
// The input slice is never mutated; the recompute is all-or-nothing.
func Resequence(cycles []domain.Cycle, editedIndex, newDuration int, membershipEnd, today domain.Date) (ResequenceResult, error) {
	if editedIndex < 0 || editedIndex >= len(cycles) {
		return ResequenceResult{}, fmt.Errorf("%w: edited index %d out of range (have %d cycles)", ErrInvariantViolation, editedIndex, len(cycles))
	}
	if newDuration < 1 {
		return ResequenceResult{}, fmt.Errorf("%w: duration must be at least 1 day, got %d", ErrInvalidRange, newDuration)
	}
	if err := validateSequence(cycles); err != nil {
		return ResequenceResult{}, err
	}

	var dropped []domain.Cycle
	kept := make([]domain.Cycle, 0, len(cycles))
	kept = append(kept, cycles[:editedIndex]...)
	start := cycles[editedIndex].StartDate

	for i := editedIndex; i < len(cycles); i++ {
		c := cycles[i]
		daysLeft := start.DaysUntil(membershipEnd) + 1
		if daysLeft <= 0 {
			// Pushed entirely past the membership end; starts are monotone,
			// so everything from here on is dropped too.
			dropped = append(dropped, c)
			continue
		}
		duration := c.Duration
		if i == editedIndex {
			duration = newDuration
		}
		if i == len(cycles)-1 && daysLeft < duration {
			duration = daysLeft
		}
		end := start.AddDays(duration - 1)
		if end.After(membershipEnd) {
			end = membershipEnd
			duration = start.DaysUntil(end) + 1
		}

		c.StartDate = start
		c.EndDate = end
		c.Duration = duration
		c.Status = domain.CycleStatusOn(today, start, end)
		c.CycleNumber = len(kept) + 1
		kept = append(kept, c)

		start = end.AddDays(1)
	}

	return ResequenceResult{Cycles: kept, Dropped: dropped}, nil
}

// validateSequence checks the §3 invariants on the caller-supplied sequence:
// cycle numbers contiguous from 1, windows well-formed with matching
// durations, each cycle starting the day after its predecessor ends.
func validateSequence(cycles []domain.Cycle) error {
	for i, c := range cycles {
		if c.CycleNumber != i+1 {
			return fmt.Errorf("%w: cycle at position %d has number %d", ErrInvariantViolation, i, c.CycleNumber)
		}
		if c.EndDate.Before(c.StartDate) {
			return fmt.Errorf("%w: cycle %d ends %s before it starts %s", ErrInvariantViolation, c.CycleNumber, c.EndDate, c.StartDate)
		}
		if c.Duration != c.Days() {
			return fmt.Errorf("%w: cycle %d duration %d does not match window %s..%s", ErrInvariantViolation, c.CycleNumber, c.Duration, c.StartDate, c.EndDate)
		}
		if i > 0 {
			prevEnd := cycles[i-1].EndDate
			if !c.StartDate.Equal(prevEnd.AddDays(1)) {
				return fmt.Errorf("%w: cycle %d starts %s, expected %s (day after cycle %d ends)", ErrInvariantViolation, c.CycleNumber, c.StartDate, prevEnd.AddDays(1), cycles[i-1].CycleNumber)
			}
		}
	}
	return nil
}

// RefreshStatuses re-derives every cycle's status as of today. Returns a new
// slice; the input is not mutated.
func RefreshStatuses(cycles []domain.Cycle, today domain.Date) []domain.Cycle {
	out := make([]domain.Cycle, len(cycles))
	copy(out, cycles)
	for i := range out {
		out[i].Status = domain.CycleStatusOn(today, out[i].StartDate, out[i].EndDate)
	}
	return out
}
