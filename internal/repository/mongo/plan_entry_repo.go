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

const planEntryCollectionName = "workout_plan_entries"

// mongoPlanEntryRepository implements repository.PlanEntryRepository.
type mongoPlanEntryRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanEntryRepository creates a new WorkoutPlanEntry repository.
func NewMongoPlanEntryRepository(db *mongo.Database) repository.PlanEntryRepository {
	return &mongoPlanEntryRepository{
		collection: db.Collection(planEntryCollectionName),
	}
}

// Create inserts a new plan entry.
func (r *mongoPlanEntryRepository) Create(ctx context.Context, entry *domain.WorkoutPlanEntry) (primitive.ObjectID, error) {
	if entry.CyclePlanID == primitive.NilObjectID || entry.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan entry requires cyclePlanId and exerciseId")
	}
	if entry.DayDate.IsZero() {
		return primitive.NilObjectID, errors.New("plan entry requires a day date")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted entry ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan entry.
func (r *mongoPlanEntryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanEntry, error) {
	var entry domain.WorkoutPlanEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByCycleID retrieves all entries of a cycle ordered by day.
func (r *mongoPlanEntryRepository) GetByCycleID(ctx context.Context, cyclePlanID primitive.ObjectID) ([]domain.WorkoutPlanEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "dayDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"cyclePlanId": cyclePlanID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WorkoutPlanEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByCycleAndDates retrieves a cycle's entries for the given days only.
// Dates are stored as YYYY-MM-DD strings, so equality matching is exact.
func (r *mongoPlanEntryRepository) GetByCycleAndDates(ctx context.Context, cyclePlanID primitive.ObjectID, dates ...domain.Date) ([]domain.WorkoutPlanEntry, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	dateStrings := make([]string, len(dates))
	for i, d := range dates {
		dateStrings[i] = d.String()
	}
	filter := bson.M{
		"cyclePlanId": cyclePlanID,
		"dayDate":     bson.M{"$in": dateStrings},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WorkoutPlanEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update rewrites one entry's date, target, and notes.
func (r *mongoPlanEntryRepository) Update(ctx context.Context, entry *domain.WorkoutPlanEntry) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("plan entry ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"dayDate":   entry.DayDate,
			"target":    entry.Target,
			"notes":     entry.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RestampDates rewrites DayDate for the given entries in one ordered bulk
// write. This is the persist step of a day swap: only dates move.
func (r *mongoPlanEntryRepository) RestampDates(ctx context.Context, entries []domain.WorkoutPlanEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		if e.ID == primitive.NilObjectID {
			return repository.ErrUpdateFailed
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": e.ID}).
			SetUpdate(bson.M{"$set": bson.M{"dayDate": e.DayDate, "updatedAt": now}}))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return err
	}
	if result.MatchedCount != int64(len(entries)) {
		return repository.ErrUpdateFailed
	}
	return nil
}

// EnsurePlanEntryIndexes creates necessary indexes. Call during startup.
func EnsurePlanEntryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cyclePlanId", Value: 1}, {Key: "dayDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "dayDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
