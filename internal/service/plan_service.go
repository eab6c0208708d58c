package service

import (
	"context"
	"errors"
	"time"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/repository"
	"fitbro/gym-app/internal/scheduling"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEntryNotFound       = errors.New("plan entry not found")
	ErrLogNotFound         = errors.New("workout log not found")
	ErrLogImmutable        = errors.New("completed workout log cannot be modified")
	ErrEntryDateOutOfCycle = errors.New("entry date is outside its cycle window")
)

// SwapToTodayResult reports everything a swap-to-today touched: the moved
// entry plus the extended/re-sequenced cycle tail.
type SwapToTodayResult struct {
	Entry  domain.WorkoutPlanEntry `json:"entry"`
	Cycles []domain.Cycle          `json:"cycles"`
}

// PlanService manages workout plan entries, day swaps, and workout logs.
type PlanService interface {
	CreateEntry(ctx context.Context, tenant domain.TenantContext, entry *domain.WorkoutPlanEntry) (*domain.WorkoutPlanEntry, error)
	ListEntries(ctx context.Context, tenant domain.TenantContext, cyclePlanID primitive.ObjectID) ([]domain.WorkoutPlanEntry, error)

	// SwapWorkoutDay exchanges the full planned workload between two dates of
	// one cycle (the /swap-workout-day endpoint).
	SwapWorkoutDay(ctx context.Context, tenant domain.TenantContext, cyclePlanID primitive.ObjectID, fromDate, toDate domain.Date) ([]domain.WorkoutPlanEntry, error)
	// SwapEntryToToday moves one future/missed entry to today, extending the
	// owning cycle by a day and re-sequencing the cycles after it.
	SwapEntryToToday(ctx context.Context, tenant domain.TenantContext, entryID primitive.ObjectID) (*SwapToTodayResult, error)

	CreateLog(ctx context.Context, tenant domain.TenantContext, log *domain.WorkoutLog) (*domain.WorkoutLog, error)
	UpdateLog(ctx context.Context, tenant domain.TenantContext, log *domain.WorkoutLog) (*domain.WorkoutLog, error)
}

type planService struct {
	memberRepo repository.MemberRepository
	cycleRepo  repository.CycleRepository
	entryRepo  repository.PlanEntryRepository
	logRepo    repository.WorkoutLogRepository
	restDay    time.Weekday
	today      func() domain.Date
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	memberRepo repository.MemberRepository,
	cycleRepo repository.CycleRepository,
	entryRepo repository.PlanEntryRepository,
	logRepo repository.WorkoutLogRepository,
	restDay time.Weekday,
) PlanService {
	return &planService{
		memberRepo: memberRepo,
		cycleRepo:  cycleRepo,
		entryRepo:  entryRepo,
		logRepo:    logRepo,
		restDay:    restDay,
		today:      domain.Today,
	}
}

// getOwnedCycle loads a live cycle and verifies the owning member belongs to
// the tenant's gym.
func (s *planService) getOwnedCycle(ctx context.Context, tenant domain.TenantContext, cycleID primitive.ObjectID) (*domain.Cycle, *domain.Member, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCycleNotFound
		}
		return nil, nil, err
	}
	if cycle.IsDeleted {
		return nil, nil, ErrCycleNotFound
	}
	member, err := s.memberRepo.GetByID(ctx, cycle.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMemberNotFound
		}
		return nil, nil, err
	}
	if !tenant.OwnsMember(member) {
		return nil, nil, ErrMemberNotInGym
	}
	return cycle, member, nil
}

func (s *planService) CreateEntry(ctx context.Context, tenant domain.TenantContext, entry *domain.WorkoutPlanEntry) (*domain.WorkoutPlanEntry, error) {
	cycle, _, err := s.getOwnedCycle(ctx, tenant, entry.CyclePlanID)
	if err != nil {
		return nil, err
	}
	if !cycle.Contains(entry.DayDate) {
		return nil, ErrEntryDateOutOfCycle
	}

	entryID, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

func (s *planService) ListEntries(ctx context.Context, tenant domain.TenantContext, cyclePlanID primitive.ObjectID) ([]domain.WorkoutPlanEntry, error) {
	if _, _, err := s.getOwnedCycle(ctx, tenant, cyclePlanID); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByCycleID(ctx, cyclePlanID)
}

func (s *planService) SwapWorkoutDay(ctx context.Context, tenant domain.TenantContext, cyclePlanID primitive.ObjectID, fromDate, toDate domain.Date) ([]domain.WorkoutPlanEntry, error) {
	cycle, member, err := s.getOwnedCycle(ctx, tenant, cyclePlanID)
	if err != nil {
		return nil, err
	}

	unlock := sequenceLocks.Lock(member.ID)
	defer unlock()

	entries, err := s.entryRepo.GetByCycleAndDates(ctx, cyclePlanID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.GetByCycleID(ctx, cyclePlanID)
	if err != nil {
		return nil, err
	}

	moved, err := scheduling.SwapDay(entries, logs, *cycle, fromDate, toDate, s.restDay)
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.RestampDates(ctx, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *planService) SwapEntryToToday(ctx context.Context, tenant domain.TenantContext, entryID primitive.ObjectID) (*SwapToTodayResult, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	cycle, member, err := s.getOwnedCycle(ctx, tenant, entry.CyclePlanID)
	if err != nil {
		return nil, err
	}

	unlock := sequenceLocks.Lock(member.ID)
	defer unlock()

	cycles, err := s.cycleRepo.GetByMemberID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	cycleIndex := -1
	for i, c := range cycles {
		if c.ID == cycle.ID {
			cycleIndex = i
			break
		}
	}
	if cycleIndex == -1 {
		return nil, ErrCycleNotFound
	}
	logs, err := s.logRepo.GetByCycleID(ctx, cycle.ID)
	if err != nil {
		return nil, err
	}

	moved, result, err := scheduling.SwapEntryToToday(cycles, cycleIndex, *entry, logs, member.MembershipEndDate, s.today(), s.restDay)
	if err != nil {
		return nil, err
	}

	if err := s.cycleRepo.ReplaceSequence(ctx, member.ID, result.Cycles); err != nil {
		return nil, err
	}
	for _, d := range result.Dropped {
		if err := s.cycleRepo.SoftDelete(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	if err := s.entryRepo.Update(ctx, &moved); err != nil {
		return nil, err
	}
	return &SwapToTodayResult{Entry: moved, Cycles: result.Cycles}, nil
}

func (s *planService) CreateLog(ctx context.Context, tenant domain.TenantContext, log *domain.WorkoutLog) (*domain.WorkoutLog, error) {
	entry, err := s.entryRepo.GetByID(ctx, log.WorkoutPlanEntryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	_, member, err := s.getOwnedCycle(ctx, tenant, entry.CyclePlanID)
	if err != nil {
		return nil, err
	}
	log.MemberID = member.ID
	log.CyclePlanID = entry.CyclePlanID
	if log.WorkoutDate.IsZero() {
		log.WorkoutDate = entry.DayDate
	}

	logID, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID
	return log, nil
}

func (s *planService) UpdateLog(ctx context.Context, tenant domain.TenantContext, log *domain.WorkoutLog) (*domain.WorkoutLog, error) {
	existing, err := s.logRepo.GetByID(ctx, log.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	if existing.Status == domain.LogStatusCompleted {
		return nil, ErrLogImmutable
	}
	if _, _, err := s.getOwnedCycle(ctx, tenant, existing.CyclePlanID); err != nil {
		return nil, err
	}

	log.MemberID = existing.MemberID
	log.CyclePlanID = existing.CyclePlanID
	log.WorkoutPlanEntryID = existing.WorkoutPlanEntryID
	if err := s.logRepo.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}
