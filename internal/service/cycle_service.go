package service

import (
	"context"
	"errors"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/repository"
	"fitbro/gym-app/internal/scheduling"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCycleNotFound     = errors.New("cycle not found")
	ErrCyclesExist       = errors.New("member already has cycles")
	ErrActiveCycleExists = errors.New("member already has an active cycle")
)

// CycleService orchestrates the scheduling core against persistence: every
// operation reads the member's live sequence, runs the pure computation, and
// persists the full result. Read-modify-write runs under a per-member lock
// so two admin sessions cannot interleave edits and corrupt contiguity.
type CycleService interface {
	ListCycles(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) ([]domain.Cycle, error)
	// GenerateCycles partitions the member's whole membership window into
	// cycles of the default length and persists them. Refused when the
	// member already has cycles.
	GenerateCycles(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, defaultDays int) ([]domain.Cycle, error)
	// AddCycle appends the next contiguous cycle (the lazy alternative to
	// GenerateCycles).
	AddCycle(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, defaultDays int) (*domain.Cycle, error)
	// EditCycleDuration changes one cycle's duration and re-sequences every
	// following cycle. Returns the updated live sequence; cycles pushed past
	// the membership end are soft-deleted.
	EditCycleDuration(ctx context.Context, tenant domain.TenantContext, cycleID primitive.ObjectID, newDuration int) ([]domain.Cycle, error)
	SoftDeleteCycle(ctx context.Context, tenant domain.TenantContext, cycleID primitive.ObjectID) error
}

type cycleService struct {
	memberRepo repository.MemberRepository
	cycleRepo  repository.CycleRepository
	today      func() domain.Date
}

// NewCycleService creates a new instance of cycleService.
func NewCycleService(memberRepo repository.MemberRepository, cycleRepo repository.CycleRepository) CycleService {
	return &cycleService{
		memberRepo: memberRepo,
		cycleRepo:  cycleRepo,
		today:      domain.Today,
	}
}

// getOwnedMember loads a member and verifies gym ownership against the tenant.
func (s *cycleService) getOwnedMember(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if !tenant.OwnsMember(member) {
		return nil, ErrMemberNotInGym
	}
	return member, nil
}

// ListCycles returns the member's live sequence with statuses re-derived
// from today's date. The persisted status is display convenience only; reads
// always recompute.
func (s *cycleService) ListCycles(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID) ([]domain.Cycle, error) {
	if _, err := s.getOwnedMember(ctx, tenant, memberID); err != nil {
		return nil, err
	}
	cycles, err := s.cycleRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return scheduling.RefreshStatuses(cycles, s.today()), nil
}

func (s *cycleService) GenerateCycles(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, defaultDays int) ([]domain.Cycle, error) {
	member, err := s.getOwnedMember(ctx, tenant, memberID)
	if err != nil {
		return nil, err
	}

	unlock := sequenceLocks.Lock(memberID)
	defer unlock()

	existing, err := s.cycleRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrCyclesExist
	}

	cycles, err := scheduling.Partition(memberID, member.MembershipStartDate, member.MembershipEndDate, defaultDays, s.today())
	if err != nil {
		return nil, err
	}

	for i := range cycles {
		id, err := s.cycleRepo.Create(ctx, &cycles[i])
		if err != nil {
			return nil, err
		}
		cycles[i].ID = id
	}
	return cycles, nil
}

func (s *cycleService) AddCycle(ctx context.Context, tenant domain.TenantContext, memberID primitive.ObjectID, defaultDays int) (*domain.Cycle, error) {
	member, err := s.getOwnedMember(ctx, tenant, memberID)
	if err != nil {
		return nil, err
	}

	unlock := sequenceLocks.Lock(memberID)
	defer unlock()

	existing, err := s.cycleRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	cycle, err := scheduling.NextCycle(existing, memberID, member.MembershipStartDate, member.MembershipEndDate, defaultDays, s.today())
	if err != nil {
		return nil, err
	}

	// At most one active cycle per member.
	if cycle.Status == domain.CycleStatusActive {
		for _, c := range existing {
			if domain.CycleStatusOn(s.today(), c.StartDate, c.EndDate) == domain.CycleStatusActive {
				return nil, ErrActiveCycleExists
			}
		}
	}

	id, err := s.cycleRepo.Create(ctx, &cycle)
	if err != nil {
		return nil, err
	}
	cycle.ID = id
	return &cycle, nil
}

func (s *cycleService) EditCycleDuration(ctx context.Context, tenant domain.TenantContext, cycleID primitive.ObjectID, newDuration int) ([]domain.Cycle, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	member, err := s.getOwnedMember(ctx, tenant, cycle.MemberID)
	if err != nil {
		return nil, err
	}

	unlock := sequenceLocks.Lock(member.ID)
	defer unlock()

	cycles, err := s.cycleRepo.GetByMemberID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	editedIndex := -1
	for i, c := range cycles {
		if c.ID == cycleID {
			editedIndex = i
			break
		}
	}
	if editedIndex == -1 {
		return nil, ErrCycleNotFound // soft-deleted meanwhile
	}

	result, err := scheduling.Resequence(cycles, editedIndex, newDuration, member.MembershipEndDate, s.today())
	if err != nil {
		return nil, err
	}

	if err := s.cycleRepo.ReplaceSequence(ctx, member.ID, result.Cycles); err != nil {
		return nil, err
	}
	// Cycles pushed fully past the membership end are retired, not kept at
	// zero length.
	for _, d := range result.Dropped {
		if err := s.cycleRepo.SoftDelete(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	return result.Cycles, nil
}

func (s *cycleService) SoftDeleteCycle(ctx context.Context, tenant domain.TenantContext, cycleID primitive.ObjectID) error {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCycleNotFound
		}
		return err
	}
	if _, err := s.getOwnedMember(ctx, tenant, cycle.MemberID); err != nil {
		return err
	}
	return s.cycleRepo.SoftDelete(ctx, cycleID)
}
