package scheduling

import (
	"testing"

	"fitbro/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildSequence chains cycles of the given durations starting at start.
func buildSequence(start domain.Date, durations ...int) []domain.Cycle {
	cycles := make([]domain.Cycle, 0, len(durations))
	cursor := start
	for i, d := range durations {
		end := cursor.AddDays(d - 1)
		cycles = append(cycles, domain.Cycle{
			ID:          primitive.NewObjectID(),
			MemberID:    primitive.NewObjectID(),
			CycleNumber: i + 1,
			StartDate:   cursor,
			EndDate:     end,
			Duration:    d,
		})
		cursor = end.AddDays(1)
	}
	return cycles
}

func TestResequenceExtendShiftsFollowers(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-03-31")
	cycles := buildSequence(start, 30, 30, 30)

	result, err := Resequence(cycles, 0, 35, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 3)
	require.Empty(t, result.Dropped)
	requireContiguous(t, result.Cycles)

	assert.Equal(t, "2025-02-04", result.Cycles[0].EndDate.String())
	assert.Equal(t, 35, result.Cycles[0].Duration)
	assert.Equal(t, "2025-02-05", result.Cycles[1].StartDate.String())
	assert.Equal(t, 30, result.Cycles[1].Duration)
	// Last cycle absorbs the shift: only 25 days remain before the
	// membership ends.
	assert.Equal(t, "2025-03-07", result.Cycles[2].StartDate.String())
	assert.Equal(t, "2025-03-31", result.Cycles[2].EndDate.String())
	assert.Equal(t, 25, result.Cycles[2].Duration)
}

func TestResequencePartitionedSequenceClampsTail(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-01-31")
	cycles, err := Partition(primitive.NewObjectID(), start, membershipEnd, 10, start)
	require.NoError(t, err)
	require.Equal(t, []int{10, 10, 11}, []int{cycles[0].Duration, cycles[1].Duration, cycles[2].Duration})

	result, err := Resequence(cycles, 0, 15, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 3)
	require.Empty(t, result.Dropped)
	requireContiguous(t, result.Cycles)

	assert.Equal(t, "2025-01-15", result.Cycles[0].EndDate.String())
	assert.Equal(t, 15, result.Cycles[0].Duration)
	assert.Equal(t, "2025-01-16", result.Cycles[1].StartDate.String())
	assert.Equal(t, "2025-01-25", result.Cycles[1].EndDate.String())
	assert.Equal(t, 10, result.Cycles[1].Duration)
	assert.Equal(t, "2025-01-26", result.Cycles[2].StartDate.String())
	assert.Equal(t, "2025-01-31", result.Cycles[2].EndDate.String())
	assert.Equal(t, 6, result.Cycles[2].Duration)
}

func TestResequenceShrinkPullsFollowersEarlier(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-03-31")
	cycles := buildSequence(start, 30, 30, 30)

	result, err := Resequence(cycles, 0, 20, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 3)
	requireContiguous(t, result.Cycles)

	assert.Equal(t, "2025-01-20", result.Cycles[0].EndDate.String())
	assert.Equal(t, "2025-01-21", result.Cycles[1].StartDate.String())
	assert.Equal(t, "2025-02-20", result.Cycles[2].StartDate.String())
	assert.Equal(t, "2025-03-21", result.Cycles[2].EndDate.String())
	assert.Equal(t, 30, result.Cycles[2].Duration)
}

func TestResequenceFollowersKeepOwnDurations(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-03-31")
	cycles := buildSequence(start, 15, 10, 20)

	result, err := Resequence(cycles, 0, 20, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 3)
	requireContiguous(t, result.Cycles)

	assert.Equal(t, 20, result.Cycles[0].Duration)
	assert.Equal(t, "2025-01-21", result.Cycles[1].StartDate.String())
	assert.Equal(t, 10, result.Cycles[1].Duration, "follower must keep its own duration")
	assert.Equal(t, 20, result.Cycles[2].Duration)
}

func TestResequenceEditMiddleLeavesPredecessorsAlone(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-06-30")
	cycles := buildSequence(start, 30, 30, 30)

	result, err := Resequence(cycles, 1, 45, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 3)
	requireContiguous(t, result.Cycles)

	assert.True(t, result.Cycles[0].StartDate.Equal(cycles[0].StartDate))
	assert.True(t, result.Cycles[0].EndDate.Equal(cycles[0].EndDate))
	assert.Equal(t, 45, result.Cycles[1].Duration)
	assert.Equal(t, "2025-03-17", result.Cycles[2].StartDate.String())
}

func TestResequenceDropsCyclesPushedPastMembershipEnd(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-02-09") // 40 days total
	cycles := buildSequence(start, 30, 10)

	result, err := Resequence(cycles, 0, 40, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 1)
	require.Len(t, result.Dropped, 1)

	assert.True(t, result.Cycles[0].EndDate.Equal(membershipEnd))
	assert.Equal(t, 40, result.Cycles[0].Duration)
	assert.Equal(t, cycles[1].ID, result.Dropped[0].ID)
}

func TestResequenceClampsEditedCycleAtMembershipEnd(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-01-20")
	cycles := buildSequence(start, 10, 10)

	// Asking for 50 days when only 20 exist: the edited cycle is clipped to
	// the membership end and the follower is dropped.
	result, err := Resequence(cycles, 0, 50, membershipEnd, start)
	require.NoError(t, err)
	require.Len(t, result.Cycles, 1)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, 20, result.Cycles[0].Duration)
	assert.True(t, result.Cycles[0].EndDate.Equal(membershipEnd))
}

func TestResequenceIsIdempotent(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-03-31")
	cycles := buildSequence(start, 30, 30, 30)

	first, err := Resequence(cycles, 0, 35, membershipEnd, start)
	require.NoError(t, err)
	second, err := Resequence(first.Cycles, 0, 35, membershipEnd, start)
	require.NoError(t, err)

	require.Len(t, second.Cycles, len(first.Cycles))
	for i := range first.Cycles {
		assert.True(t, second.Cycles[i].StartDate.Equal(first.Cycles[i].StartDate))
		assert.True(t, second.Cycles[i].EndDate.Equal(first.Cycles[i].EndDate))
		assert.Equal(t, first.Cycles[i].Duration, second.Cycles[i].Duration)
	}
	assert.Empty(t, second.Dropped)
}

func TestResequenceDoesNotMutateInput(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	cycles := buildSequence(start, 30, 30)
	originalEnd := cycles[0].EndDate

	_, err := Resequence(cycles, 0, 10, domain.MustParseDate("2025-03-31"), start)
	require.NoError(t, err)
	assert.True(t, cycles[0].EndDate.Equal(originalEnd))
	assert.Equal(t, 30, cycles[0].Duration)
}

func TestResequenceRejectsBadInput(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	membershipEnd := domain.MustParseDate("2025-03-31")
	cycles := buildSequence(start, 30, 30)

	_, err := Resequence(cycles, -1, 30, membershipEnd, start)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = Resequence(cycles, 2, 30, membershipEnd, start)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	_, err = Resequence(cycles, 0, 0, membershipEnd, start)
	assert.ErrorIs(t, err, ErrInvalidRange)

	// A gapped sequence is refused before anything is recomputed.
	gapped := buildSequence(start, 30, 30)
	gapped[1].StartDate = gapped[1].StartDate.AddDays(1)
	gapped[1].EndDate = gapped[1].EndDate.AddDays(1)
	_, err = Resequence(gapped, 0, 30, membershipEnd, start)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestRefreshStatuses(t *testing.T) {
	start := domain.MustParseDate("2025-01-01")
	cycles := buildSequence(start, 30, 30)

	refreshed := RefreshStatuses(cycles, domain.MustParseDate("2025-02-05"))
	require.Len(t, refreshed, 2)
	assert.Equal(t, domain.CycleStatusCompleted, refreshed[0].Status)
	assert.Equal(t, domain.CycleStatusActive, refreshed[1].Status)

	// Input keeps its (empty) statuses.
	assert.Empty(t, string(cycles[0].Status))
}
