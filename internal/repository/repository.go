package repository

import (
	"context"

	"fitbro/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for admin-console account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// MemberRepository defines the interface for member data.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	GetByGymID(ctx context.Context, gymID primitive.ObjectID) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
}

// CycleRepository defines the interface for cycle sequences. Reads filter out
// soft-deleted cycles and order by cycle number; writes never hard-delete.
type CycleRepository interface {
	Create(ctx context.Context, cycle *domain.Cycle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Cycle, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.Cycle, error)
	Update(ctx context.Context, cycle *domain.Cycle) error
	// ReplaceSequence persists a recomputed sequence for one member in a
	// single bulk write (the re-sequencer's all-or-nothing persist step).
	ReplaceSequence(ctx context.Context, memberID primitive.ObjectID, cycles []domain.Cycle) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// PlanEntryRepository defines the interface for workout plan entries.
type PlanEntryRepository interface {
	Create(ctx context.Context, entry *domain.WorkoutPlanEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanEntry, error)
	GetByCycleID(ctx context.Context, cyclePlanID primitive.ObjectID) ([]domain.WorkoutPlanEntry, error)
	GetByCycleAndDates(ctx context.Context, cyclePlanID primitive.ObjectID, dates ...domain.Date) ([]domain.WorkoutPlanEntry, error)
	Update(ctx context.Context, entry *domain.WorkoutPlanEntry) error
	// RestampDates rewrites DayDate for the given entries in one bulk write
	// (the swap resolver's persist step).
	RestampDates(ctx context.Context, entries []domain.WorkoutPlanEntry) error
}

// WorkoutLogRepository defines the interface for workout logs.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	GetByCycleID(ctx context.Context, cyclePlanID primitive.ObjectID) ([]domain.WorkoutLog, error)
	Update(ctx context.Context, log *domain.WorkoutLog) error
}
