package scheduling

import (
	"fmt"
	"time"

	"fitbro/gym-app/internal/domain"
)

// DefaultRestDay is the weekly holiday on which no workouts are scheduled
// and which can never be a swap target.
const DefaultRestDay = time.Sunday

// SwapDay exchanges the complete planned workload between dateA and dateB
// within the given cycle: every entry dated A is re-stamped to B and vice
// versa. Exercise/workout references and planned metrics are untouched.
//
// It returns only the entries whose DayDate changed, already re-stamped; the
// input slice is not mutated. The swap is refused when the two dates are the
// same, when either falls outside the cycle window, when either lands on the
// rest day, or when either date already carries a completed workout log.
func SwapDay(entries []domain.WorkoutPlanEntry, logs []domain.WorkoutLog, cycle domain.Cycle, dateA, dateB domain.Date, restDay time.Weekday) ([]domain.WorkoutPlanEntry, error) {
	if dateA.Equal(dateB) {
		return nil, fmt.Errorf("%w: cannot swap %s with itself", ErrInvalidSwapTarget, dateA)
	}
	for _, d := range []domain.Date{dateA, dateB} {
		if !cycle.Contains(d) {
			return nil, fmt.Errorf("%w: %s is outside cycle %d (%s..%s)", ErrInvalidSwapTarget, d, cycle.CycleNumber, cycle.StartDate, cycle.EndDate)
		}
		if d.Weekday() == restDay {
			return nil, fmt.Errorf("%w: %s is a rest day (%s)", ErrInvalidSwapTarget, d, restDay)
		}
	}
	if err := checkNoCompletedLogs(logs, dateA, dateB); err != nil {
		return nil, err
	}

	var moved []domain.WorkoutPlanEntry
	for _, e := range entries {
		switch {
		case e.DayDate.Equal(dateA):
			e.DayDate = dateB
			moved = append(moved, e)
		case e.DayDate.Equal(dateB):
			e.DayDate = dateA
			moved = append(moved, e)
		}
	}
	return moved, nil
}

// SwapEntryToToday re-dates a single plan entry to today and extends the
// owning cycle's end date by one day to make room, re-sequencing every later
// cycle so the sequence stays contiguous and membership-bounded. This is the
// "swap this workout to today" action from the logging screen.
//
// Returns the re-stamped entry and the resequenced cycle tail (the owning
// cycle included, with its extended window). When the owning cycle already
// ends on the membership end date there is no day to add and the membership
// is exhausted.
func SwapEntryToToday(cycles []domain.Cycle, cycleIndex int, entry domain.WorkoutPlanEntry, logs []domain.WorkoutLog, membershipEnd, today domain.Date, restDay time.Weekday) (domain.WorkoutPlanEntry, ResequenceResult, error) {
	if cycleIndex < 0 || cycleIndex >= len(cycles) {
		return entry, ResequenceResult{}, fmt.Errorf("%w: cycle index %d out of range (have %d cycles)", ErrInvariantViolation, cycleIndex, len(cycles))
	}
	cycle := cycles[cycleIndex]
	if entry.DayDate.Equal(today) {
		return entry, ResequenceResult{}, fmt.Errorf("%w: entry is already scheduled for today", ErrInvalidSwapTarget)
	}
	if today.Weekday() == restDay {
		return entry, ResequenceResult{}, fmt.Errorf("%w: today (%s) is a rest day", ErrInvalidSwapTarget, today)
	}
	if !cycle.Contains(today) {
		return entry, ResequenceResult{}, fmt.Errorf("%w: today (%s) is outside cycle %d (%s..%s)", ErrInvalidSwapTarget, today, cycle.CycleNumber, cycle.StartDate, cycle.EndDate)
	}
	if !cycle.EndDate.Before(membershipEnd) {
		return entry, ResequenceResult{}, fmt.Errorf("%w: cycle %d already ends on the membership end date %s", ErrMembershipExhausted, cycle.CycleNumber, membershipEnd)
	}
	if err := checkNoCompletedLogs(logs, entry.DayDate, today); err != nil {
		return entry, ResequenceResult{}, err
	}

	result, err := Resequence(cycles, cycleIndex, cycle.Duration+1, membershipEnd, today)
	if err != nil {
		return entry, ResequenceResult{}, err
	}
	entry.DayDate = today
	return entry, result, nil
}

func checkNoCompletedLogs(logs []domain.WorkoutLog, dates ...domain.Date) error {
	for _, l := range logs {
		if l.Status != domain.LogStatusCompleted {
			continue
		}
		for _, d := range dates {
			if l.WorkoutDate.Equal(d) {
				return fmt.Errorf("%w: %s", ErrAlreadyLogged, d)
			}
		}
	}
	return nil
}
