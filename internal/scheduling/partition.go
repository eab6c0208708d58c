package scheduling

import (
	"fmt"

	"fitbro/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partition splits the membership window [membershipStart, membershipEnd]
// into an ordered sequence of contiguous cycles of defaultDays each. The
// first cycle starts on membershipStart; there are no gaps and no overlaps,
// and the last cycle ends exactly on membershipEnd. A final remainder
// shorter than defaultDays is folded into the last cycle rather than emitted
// as a stub, so the last cycle runs between defaultDays and 2*defaultDays-1
// days (or shorter, when the whole window is shorter than one default cycle).
func Partition(memberID primitive.ObjectID, membershipStart, membershipEnd domain.Date, defaultDays int, today domain.Date) ([]domain.Cycle, error) {
	if membershipStart.After(membershipEnd) {
		return nil, fmt.Errorf("%w: membership start %s is after end %s", ErrInvalidRange, membershipStart, membershipEnd)
	}
	if defaultDays < 1 {
		return nil, fmt.Errorf("%w: default cycle duration must be at least 1 day, got %d", ErrInvalidRange, defaultDays)
	}

	var cycles []domain.Cycle
	cursor := membershipStart
	for number := 1; !cursor.After(membershipEnd); number++ {
		duration := defaultDays
		if daysLeft := cursor.DaysUntil(membershipEnd) + 1; daysLeft < 2*defaultDays {
			// Last cycle: absorb the remainder instead of leaving a stub.
			duration = daysLeft
		}
		end := cursor.AddDays(duration - 1)
		cycles = append(cycles, domain.Cycle{
			MemberID:    memberID,
			CycleNumber: number,
			StartDate:   cursor,
			EndDate:     end,
			Duration:    duration,
			Status:      domain.CycleStatusOn(today, cursor, end),
		})
		cursor = end.AddDays(1)
	}
	return cycles, nil
}

// NextCycle computes the cycle that an explicit "Add Cycle" action would
// append after the existing sequence: it starts the day after the last
// cycle's end (or on membershipStart when the sequence is empty) and runs for
// defaultDays, clipped to membershipEnd. Once the last cycle already reaches
// membershipEnd there is nothing left to schedule and ErrMembershipExhausted
// is returned.
func NextCycle(existing []domain.Cycle, memberID primitive.ObjectID, membershipStart, membershipEnd domain.Date, defaultDays int, today domain.Date) (domain.Cycle, error) {
	if membershipStart.After(membershipEnd) {
		return domain.Cycle{}, fmt.Errorf("%w: membership start %s is after end %s", ErrInvalidRange, membershipStart, membershipEnd)
	}
	if defaultDays < 1 {
		return domain.Cycle{}, fmt.Errorf("%w: default cycle duration must be at least 1 day, got %d", ErrInvalidRange, defaultDays)
	}

	start := membershipStart
	number := 1
	if n := len(existing); n > 0 {
		last := existing[n-1]
		if !last.EndDate.Before(membershipEnd) {
			return domain.Cycle{}, fmt.Errorf("%w: cycle %d already ends on %s", ErrMembershipExhausted, last.CycleNumber, last.EndDate)
		}
		start = last.EndDate.AddDays(1)
		number = last.CycleNumber + 1
	}

	daysLeft := start.DaysUntil(membershipEnd) + 1
	if daysLeft <= 0 {
		return domain.Cycle{}, fmt.Errorf("%w: no days left after %s", ErrMembershipExhausted, start)
	}
	duration := defaultDays
	if daysLeft < duration {
		duration = daysLeft
	}
	end := start.AddDays(duration - 1)

	return domain.Cycle{
		MemberID:    memberID,
		CycleNumber: number,
		StartDate:   start,
		EndDate:     end,
		Duration:    duration,
		Status:      domain.CycleStatusOn(today, start, end),
	}, nil
}
