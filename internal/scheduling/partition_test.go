package scheduling

import (
	"testing"

	"fitbro/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requireContiguous asserts the structural invariants of a cycle sequence:
// 1-based gapless numbering, well-formed windows with matching durations,
// and each cycle starting the day after its predecessor ends.
func requireContiguous(t *testing.T, cycles []domain.Cycle) {
	t.Helper()
	for i, c := range cycles {
		require.Equal(t, i+1, c.CycleNumber, "cycle %d numbering", i)
		require.False(t, c.EndDate.Before(c.StartDate), "cycle %d window", i)
		require.Equal(t, c.Days(), c.Duration, "cycle %d duration", i)
		if i > 0 {
			require.True(t, c.StartDate.Equal(cycles[i-1].EndDate.AddDays(1)),
				"cycle %d must start the day after cycle %d ends", i+1, i)
		}
	}
}

func TestPartitionExactMultiple(t *testing.T) {
	memberID := primitive.NewObjectID()
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-03-01") // 60 days

	cycles, err := Partition(memberID, start, end, 30, start)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	requireContiguous(t, cycles)

	assert.Equal(t, "2025-01-01", cycles[0].StartDate.String())
	assert.Equal(t, "2025-01-30", cycles[0].EndDate.String())
	assert.Equal(t, 30, cycles[0].Duration)
	assert.Equal(t, "2025-01-31", cycles[1].StartDate.String())
	assert.Equal(t, "2025-03-01", cycles[1].EndDate.String())
	assert.Equal(t, 30, cycles[1].Duration)
}

func TestPartitionAbsorbsRemainderIntoLastCycle(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-01-31") // 31 days, default 10

	cycles, err := Partition(primitive.NewObjectID(), start, end, 10, start)
	require.NoError(t, err)
	require.Len(t, cycles, 3, "one-day remainder must be absorbed, not emitted as a stub")
	requireContiguous(t, cycles)

	assert.Equal(t, "2025-01-01", cycles[0].StartDate.String())
	assert.Equal(t, "2025-01-10", cycles[0].EndDate.String())
	assert.Equal(t, 10, cycles[0].Duration)
	assert.Equal(t, "2025-01-11", cycles[1].StartDate.String())
	assert.Equal(t, "2025-01-20", cycles[1].EndDate.String())
	assert.Equal(t, 10, cycles[1].Duration)
	assert.Equal(t, "2025-01-21", cycles[2].StartDate.String())
	assert.Equal(t, "2025-01-31", cycles[2].EndDate.String())
	assert.Equal(t, 11, cycles[2].Duration)
}

func TestPartitionLastCycleEndsOnMembershipEnd(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-02-14") // 45 days, default 30

	// A 15-day remainder folds into the opening cycle, leaving a single
	// 45-day cycle rather than a 30-day cycle plus a short tail.
	cycles, err := Partition(primitive.NewObjectID(), start, end, 30, start)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	requireContiguous(t, cycles)

	assert.Equal(t, 45, cycles[0].Duration)
	assert.True(t, cycles[0].EndDate.Equal(end), "last cycle must end on membership end")

	// 70 days: one full default cycle, then a 40-day closer.
	cycles, err = Partition(primitive.NewObjectID(), start, domain.MustParseDate("2025-03-11"), 30, start)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	requireContiguous(t, cycles)

	assert.Equal(t, 30, cycles[0].Duration)
	assert.Equal(t, 40, cycles[1].Duration)
	assert.Equal(t, "2025-03-11", cycles[1].EndDate.String())
}

func TestPartitionShortMembership(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")

	// Window shorter than one default cycle.
	cycles, err := Partition(primitive.NewObjectID(), start, domain.MustParseDate("2025-01-10"), 30, start)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, 10, cycles[0].Duration)

	// Single-day membership.
	cycles, err = Partition(primitive.NewObjectID(), start, start, 30, start)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, 1, cycles[0].Duration)
	assert.True(t, cycles[0].StartDate.Equal(cycles[0].EndDate))
}

func TestPartitionInvalidInput(t *testing.T) {
	start := domain.MustParseDate("2025-02-01")
	end := domain.MustParseDate("2025-01-01")

	_, err := Partition(primitive.NewObjectID(), start, end, 30, start)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Partition(primitive.NewObjectID(), end, start, 0, end)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPartitionDerivesStatuses(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-03-01")
	today := domain.MustParseDate("2025-02-05") // inside the second cycle

	cycles, err := Partition(primitive.NewObjectID(), start, end, 30, today)
	require.NoError(t, err)
	require.Len(t, cycles, 2)

	assert.Equal(t, domain.CycleStatusCompleted, cycles[0].Status)
	assert.Equal(t, domain.CycleStatusActive, cycles[1].Status)
}

func TestNextCycleAppendsAfterLast(t *testing.T) {
	memberID := primitive.NewObjectID()
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-06-30")

	first, err := Partition(memberID, start, domain.MustParseDate("2025-01-30"), 30, start)
	require.NoError(t, err)

	next, err := NextCycle(first, memberID, start, end, 30, start)
	require.NoError(t, err)
	assert.Equal(t, 2, next.CycleNumber)
	assert.Equal(t, "2025-01-31", next.StartDate.String())
	assert.Equal(t, 30, next.Duration)
}

func TestNextCycleEmptySequenceStartsAtMembershipStart(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")

	next, err := NextCycle(nil, primitive.NewObjectID(), start, domain.MustParseDate("2025-06-30"), 30, start)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CycleNumber)
	assert.True(t, next.StartDate.Equal(start))
}

func TestNextCycleClampsToMembershipEnd(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-02-09") // 40 days

	existing, err := Partition(primitive.NewObjectID(), start, domain.MustParseDate("2025-01-30"), 30, start)
	require.NoError(t, err)

	next, err := NextCycle(existing, primitive.NewObjectID(), start, end, 30, start)
	require.NoError(t, err)
	assert.Equal(t, 10, next.Duration)
	assert.True(t, next.EndDate.Equal(end))
}

func TestNextCycleMembershipExhausted(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	end := domain.MustParseDate("2025-01-30")

	existing, err := Partition(primitive.NewObjectID(), start, end, 30, start)
	require.NoError(t, err)

	_, err = NextCycle(existing, primitive.NewObjectID(), start, end, 30, start)
	assert.ErrorIs(t, err, ErrMembershipExhausted)
}
