package service

import (
	"context"
	"sort"
	"time"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes for service tests. They mirror the mongo
// implementations' observable behavior: sentinel errors, soft-delete
// filtering, cycle-number ordering.

type fakeMemberRepo struct {
	members map[primitive.ObjectID]*domain.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[primitive.ObjectID]*domain.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *domain.Member) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	m := *member
	m.ID = id
	r.members[id] = &m
	return id, nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMemberRepo) GetByGymID(_ context.Context, gymID primitive.ObjectID) ([]domain.Member, error) {
	var out []domain.Member
	for _, m := range r.members {
		if m.GymID == gymID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Update(_ context.Context, member *domain.Member) error {
	if _, ok := r.members[member.ID]; !ok {
		return repository.ErrNotFound
	}
	m := *member
	r.members[member.ID] = &m
	return nil
}

// fakeFileStorage records presign/delete calls instead of talking to S3.
type fakeFileStorage struct {
	deleted []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

type fakeCycleRepo struct {
	cycles map[primitive.ObjectID]*domain.Cycle
}

func newFakeCycleRepo() *fakeCycleRepo {
	return &fakeCycleRepo{cycles: make(map[primitive.ObjectID]*domain.Cycle)}
}

func (r *fakeCycleRepo) Create(_ context.Context, cycle *domain.Cycle) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	c := *cycle
	c.ID = id
	r.cycles[id] = &c
	return id, nil
}

func (r *fakeCycleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Cycle, error) {
	c, ok := r.cycles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCycleRepo) GetByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.Cycle, error) {
	var out []domain.Cycle
	for _, c := range r.cycles {
		if c.MemberID == memberID && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CycleNumber < out[j].CycleNumber })
	return out, nil
}

func (r *fakeCycleRepo) Update(_ context.Context, cycle *domain.Cycle) error {
	if _, ok := r.cycles[cycle.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *cycle
	r.cycles[cycle.ID] = &c
	return nil
}

func (r *fakeCycleRepo) ReplaceSequence(_ context.Context, memberID primitive.ObjectID, cycles []domain.Cycle) error {
	for _, c := range cycles {
		existing, ok := r.cycles[c.ID]
		if !ok || existing.MemberID != memberID {
			return repository.ErrUpdateFailed
		}
		copied := c
		r.cycles[c.ID] = &copied
	}
	return nil
}

func (r *fakeCycleRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	c, ok := r.cycles[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsDeleted = true
	return nil
}

type fakePlanEntryRepo struct {
	entries map[primitive.ObjectID]*domain.WorkoutPlanEntry
}

func newFakePlanEntryRepo() *fakePlanEntryRepo {
	return &fakePlanEntryRepo{entries: make(map[primitive.ObjectID]*domain.WorkoutPlanEntry)}
}

func (r *fakePlanEntryRepo) Create(_ context.Context, entry *domain.WorkoutPlanEntry) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	e := *entry
	e.ID = id
	r.entries[id] = &e
	return id, nil
}

func (r *fakePlanEntryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlanEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakePlanEntryRepo) GetByCycleID(_ context.Context, cyclePlanID primitive.ObjectID) ([]domain.WorkoutPlanEntry, error) {
	var out []domain.WorkoutPlanEntry
	for _, e := range r.entries {
		if e.CyclePlanID == cyclePlanID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakePlanEntryRepo) GetByCycleAndDates(_ context.Context, cyclePlanID primitive.ObjectID, dates ...domain.Date) ([]domain.WorkoutPlanEntry, error) {
	var out []domain.WorkoutPlanEntry
	for _, e := range r.entries {
		if e.CyclePlanID != cyclePlanID {
			continue
		}
		for _, d := range dates {
			if e.DayDate.Equal(d) {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

func (r *fakePlanEntryRepo) Update(_ context.Context, entry *domain.WorkoutPlanEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	e := *entry
	r.entries[entry.ID] = &e
	return nil
}

func (r *fakePlanEntryRepo) RestampDates(_ context.Context, entries []domain.WorkoutPlanEntry) error {
	for _, e := range entries {
		existing, ok := r.entries[e.ID]
		if !ok {
			return repository.ErrUpdateFailed
		}
		existing.DayDate = e.DayDate
	}
	return nil
}

type fakeWorkoutLogRepo struct {
	logs map[primitive.ObjectID]*domain.WorkoutLog
}

func newFakeWorkoutLogRepo() *fakeWorkoutLogRepo {
	return &fakeWorkoutLogRepo{logs: make(map[primitive.ObjectID]*domain.WorkoutLog)}
}

func (r *fakeWorkoutLogRepo) Create(_ context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	l := *log
	l.ID = id
	r.logs[id] = &l
	return id, nil
}

func (r *fakeWorkoutLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeWorkoutLogRepo) GetByCycleID(_ context.Context, cyclePlanID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, l := range r.logs {
		if l.CyclePlanID == cyclePlanID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeWorkoutLogRepo) Update(_ context.Context, log *domain.WorkoutLog) error {
	if _, ok := r.logs[log.ID]; !ok {
		return repository.ErrNotFound
	}
	l := *log
	r.logs[log.ID] = &l
	return nil
}
