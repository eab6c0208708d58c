package service

import (
	"context"
	"testing"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	svc       *planService
	cycleSvc  *cycleService
	entryRepo *fakePlanEntryRepo
	logRepo   *fakeWorkoutLogRepo
	cycleRepo *fakeCycleRepo
	tenant    domain.TenantContext
	member    *domain.Member
	cycles    []domain.Cycle
}

// newPlanFixture seeds a member with three generated 30-day cycles starting
// 2025-01-01 and wires both services to a fixed clock.
func newPlanFixture(t *testing.T, today string) *planFixture {
	t.Helper()
	memberRepo := newFakeMemberRepo()
	cycleRepo := newFakeCycleRepo()
	entryRepo := newFakePlanEntryRepo()
	logRepo := newFakeWorkoutLogRepo()

	gymID := primitive.NewObjectID()
	member := &domain.Member{
		GymID:               gymID,
		Name:                "Anita Desai",
		Mobile:              "9123456780",
		MembershipStartDate: domain.MustParseDate("2025-01-01"),
		MembershipEndDate:   domain.MustParseDate("2025-03-31"),
		Active:              true,
	}
	id, err := memberRepo.Create(context.Background(), member)
	require.NoError(t, err)
	member.ID = id

	clock := func() domain.Date { return domain.MustParseDate(today) }
	tenant := domain.TenantContext{UserID: primitive.NewObjectID(), GymID: gymID, Role: domain.RoleStaff}

	cycleSvc := NewCycleService(memberRepo, cycleRepo).(*cycleService)
	cycleSvc.today = clock
	cycles, err := cycleSvc.GenerateCycles(context.Background(), tenant, member.ID, 30)
	require.NoError(t, err)

	svc := NewPlanService(memberRepo, cycleRepo, entryRepo, logRepo, scheduling.DefaultRestDay).(*planService)
	svc.today = clock

	return &planFixture{
		svc:       svc,
		cycleSvc:  cycleSvc,
		entryRepo: entryRepo,
		logRepo:   logRepo,
		cycleRepo: cycleRepo,
		tenant:    tenant,
		member:    member,
		cycles:    cycles,
	}
}

func (f *planFixture) addEntry(t *testing.T, cycle domain.Cycle, date string) *domain.WorkoutPlanEntry {
	t.Helper()
	entry := &domain.WorkoutPlanEntry{
		CyclePlanID: cycle.ID,
		DayDate:     domain.MustParseDate(date),
		WorkoutID:   primitive.NewObjectID(),
		ExerciseID:  primitive.NewObjectID(),
		Target:      domain.PlannedTarget{Kind: domain.TargetSets, Sets: 3, Reps: 12, Weight: 35},
	}
	created, err := f.svc.CreateEntry(context.Background(), f.tenant, entry)
	require.NoError(t, err)
	return created
}

func TestCreateEntry(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")

	entry := f.addEntry(t, f.cycles[0], "2025-01-15")
	assert.False(t, entry.ID.IsZero())

	// Outside the cycle window.
	_, err := f.svc.CreateEntry(context.Background(), f.tenant, &domain.WorkoutPlanEntry{
		CyclePlanID: f.cycles[0].ID,
		DayDate:     domain.MustParseDate("2025-02-15"),
		WorkoutID:   primitive.NewObjectID(),
		ExerciseID:  primitive.NewObjectID(),
	})
	assert.ErrorIs(t, err, ErrEntryDateOutOfCycle)

	// Unknown cycle.
	_, err = f.svc.CreateEntry(context.Background(), f.tenant, &domain.WorkoutPlanEntry{
		CyclePlanID: primitive.NewObjectID(),
		DayDate:     domain.MustParseDate("2025-01-15"),
	})
	assert.ErrorIs(t, err, ErrCycleNotFound)
}

func TestSwapWorkoutDayPersistsBothSides(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")
	a := f.addEntry(t, f.cycles[0], "2025-01-06") // Monday
	b := f.addEntry(t, f.cycles[0], "2025-01-08") // Wednesday
	untouched := f.addEntry(t, f.cycles[0], "2025-01-10")

	moved, err := f.svc.SwapWorkoutDay(context.Background(), f.tenant, f.cycles[0].ID,
		domain.MustParseDate("2025-01-06"), domain.MustParseDate("2025-01-08"))
	require.NoError(t, err)
	require.Len(t, moved, 2)

	storedA, err := f.entryRepo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", storedA.DayDate.String())
	storedB, err := f.entryRepo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", storedB.DayDate.String())
	storedC, err := f.entryRepo.GetByID(context.Background(), untouched.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", storedC.DayDate.String())
}

func TestSwapWorkoutDayBlockedByCompletedLog(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")
	entry := f.addEntry(t, f.cycles[0], "2025-01-06")

	log, err := f.svc.CreateLog(context.Background(), f.tenant, &domain.WorkoutLog{
		WorkoutPlanEntryID: entry.ID,
		Status:             domain.LogStatusCompleted,
		ActualSets:         3,
	})
	require.NoError(t, err)
	assert.Equal(t, f.member.ID, log.MemberID)

	_, err = f.svc.SwapWorkoutDay(context.Background(), f.tenant, f.cycles[0].ID,
		domain.MustParseDate("2025-01-06"), domain.MustParseDate("2025-01-08"))
	assert.ErrorIs(t, err, scheduling.ErrAlreadyLogged)
}

func TestSwapWorkoutDayRejectsRestDay(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")
	f.addEntry(t, f.cycles[0], "2025-01-06")

	_, err := f.svc.SwapWorkoutDay(context.Background(), f.tenant, f.cycles[0].ID,
		domain.MustParseDate("2025-01-06"), domain.MustParseDate("2025-01-05")) // Sunday
	assert.ErrorIs(t, err, scheduling.ErrInvalidSwapTarget)
}

func TestSwapEntryToToday(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10") // Friday, inside cycle 1
	entry := f.addEntry(t, f.cycles[0], "2025-01-20")

	result, err := f.svc.SwapEntryToToday(context.Background(), f.tenant, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", result.Entry.DayDate.String())
	require.Len(t, result.Cycles, 3)
	assert.Equal(t, 31, result.Cycles[0].Duration)
	assert.Equal(t, "2025-01-31", result.Cycles[0].EndDate.String())

	// The extension is persisted across the whole sequence.
	stored, err := f.cycleRepo.GetByMemberID(context.Background(), f.member.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, 31, stored[0].Duration)
	assert.Equal(t, "2025-02-01", stored[1].StartDate.String())
	assert.True(t, stored[2].EndDate.Equal(f.member.MembershipEndDate))

	storedEntry, err := f.entryRepo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", storedEntry.DayDate.String())
}

func TestSwapEntryToTodayRejectsRestDay(t *testing.T) {
	f := newPlanFixture(t, "2025-01-05") // Sunday
	entry := f.addEntry(t, f.cycles[0], "2025-01-20")

	_, err := f.svc.SwapEntryToToday(context.Background(), f.tenant, entry.ID)
	assert.ErrorIs(t, err, scheduling.ErrInvalidSwapTarget)
}

func TestSwapEntryToTodayUnknownEntry(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")

	_, err := f.svc.SwapEntryToToday(context.Background(), f.tenant, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestCreateLogBackfillsFromEntry(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")
	entry := f.addEntry(t, f.cycles[0], "2025-01-15")

	log, err := f.svc.CreateLog(context.Background(), f.tenant, &domain.WorkoutLog{
		WorkoutPlanEntryID: entry.ID,
		Status:             domain.LogStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, f.member.ID, log.MemberID)
	assert.Equal(t, f.cycles[0].ID, log.CyclePlanID)
	assert.Equal(t, "2025-01-15", log.WorkoutDate.String())

	_, err = f.svc.CreateLog(context.Background(), f.tenant, &domain.WorkoutLog{
		WorkoutPlanEntryID: primitive.NewObjectID(),
		Status:             domain.LogStatusPending,
	})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdateLogRefusesCompleted(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")
	entry := f.addEntry(t, f.cycles[0], "2025-01-15")

	log, err := f.svc.CreateLog(context.Background(), f.tenant, &domain.WorkoutLog{
		WorkoutPlanEntryID: entry.ID,
		Status:             domain.LogStatusPending,
	})
	require.NoError(t, err)

	// Pending to completed is allowed.
	log.Status = domain.LogStatusCompleted
	log.ActualSets = 3
	updated, err := f.svc.UpdateLog(context.Background(), f.tenant, log)
	require.NoError(t, err)
	assert.Equal(t, domain.LogStatusCompleted, updated.Status)

	// Completed logs are immutable history.
	updated.ActualSets = 5
	_, err = f.svc.UpdateLog(context.Background(), f.tenant, updated)
	assert.ErrorIs(t, err, ErrLogImmutable)
}

func TestPlanOperationsEnforceTenancy(t *testing.T) {
	f := newPlanFixture(t, "2025-01-10")
	entry := f.addEntry(t, f.cycles[0], "2025-01-15")
	otherGym := domain.TenantContext{UserID: primitive.NewObjectID(), GymID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	_, err := f.svc.ListEntries(context.Background(), otherGym, f.cycles[0].ID)
	assert.ErrorIs(t, err, ErrMemberNotInGym)

	_, err = f.svc.SwapEntryToToday(context.Background(), otherGym, entry.ID)
	assert.ErrorIs(t, err, ErrMemberNotInGym)
}
