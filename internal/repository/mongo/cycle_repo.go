package mongo

import (
	"context"
	"errors"
	"time"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cycleCollectionName = "cycle_plans"

// mongoCycleRepository implements repository.CycleRepository.
type mongoCycleRepository struct {
	collection *mongo.Collection
}

// NewMongoCycleRepository creates a new Cycle repository.
func NewMongoCycleRepository(db *mongo.Database) repository.CycleRepository {
	return &mongoCycleRepository{
		collection: db.Collection(cycleCollectionName),
	}
}

// Create inserts a new cycle.
func (r *mongoCycleRepository) Create(ctx context.Context, cycle *domain.Cycle) (primitive.ObjectID, error) {
	if cycle.MemberID == primitive.NilObjectID || cycle.CycleNumber < 1 {
		return primitive.NilObjectID, errors.New("cycle requires memberId and a positive cycle number")
	}
	cycle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	cycle.CreatedAt = now
	cycle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, cycle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted cycle ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single cycle (soft-deleted included; callers that care
// check IsDeleted).
func (r *mongoCycleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Cycle, error) {
	var cycle domain.Cycle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// GetByMemberID retrieves the member's live cycle sequence ordered by cycle
// number. Soft-deleted cycles are filtered out.
func (r *mongoCycleRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.Cycle, error) {
	filter := bson.M{
		"memberId":  memberID,
		"isDeleted": false,
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "cycleNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cycles []domain.Cycle
	if err = cursor.All(ctx, &cycles); err != nil {
		return nil, err
	}
	return cycles, nil
}

// Update rewrites one cycle's window, duration, and status.
func (r *mongoCycleRepository) Update(ctx context.Context, cycle *domain.Cycle) error {
	if cycle.ID == primitive.NilObjectID {
		return errors.New("cycle ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"cycleNumber": cycle.CycleNumber,
			"startDate":   cycle.StartDate,
			"endDate":     cycle.EndDate,
			"duration":    cycle.Duration,
			"status":      cycle.Status,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cycle.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceSequence persists a recomputed cycle sequence in one bulk write so a
// re-sequence lands all-or-nothing rather than cycle by cycle.
func (r *mongoCycleRepository) ReplaceSequence(ctx context.Context, memberID primitive.ObjectID, cycles []domain.Cycle) error {
	if len(cycles) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(cycles))
	for _, c := range cycles {
		if c.ID == primitive.NilObjectID || c.MemberID != memberID {
			return repository.ErrUpdateFailed
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": c.ID, "memberId": memberID}).
			SetUpdate(bson.M{"$set": bson.M{
				"cycleNumber": c.CycleNumber,
				"startDate":   c.StartDate,
				"endDate":     c.EndDate,
				"duration":    c.Duration,
				"status":      c.Status,
				"updatedAt":   now,
			}}))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return err
	}
	if result.MatchedCount != int64(len(cycles)) {
		return repository.ErrUpdateFailed
	}
	return nil
}

// SoftDelete flags a cycle as deleted. Cycles are never hard-deleted.
func (r *mongoCycleRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	updateDoc := bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCycleIndexes creates necessary indexes. Call during startup.
func EnsureCycleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The main query pattern: a member's live sequence in order.
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "cycleNumber", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "status", Value: 1}, {Key: "isDeleted", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
