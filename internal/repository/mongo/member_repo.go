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

const memberCollectionName = "members"

// mongoMemberRepository implements repository.MemberRepository.
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new Member repository.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.GymID == primitive.NilObjectID || member.Name == "" || member.Mobile == "" {
		return primitive.NilObjectID, errors.New("member requires gymId, name, and mobile")
	}
	if member.MembershipStartDate.After(member.MembershipEndDate) {
		return primitive.NilObjectID, errors.New("membership start date is after end date")
	}
	member.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted member ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single member.
func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	var member domain.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// GetByGymID retrieves all members of a gym, newest first.
func (r *mongoMemberRepository) GetByGymID(ctx context.Context, gymID primitive.ObjectID) ([]domain.Member, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"gymId": gymID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []domain.Member
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Update rewrites the updatable member fields. Gym ownership never changes
// through this path.
func (r *mongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	if member.ID == primitive.NilObjectID {
		return errors.New("member ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":                member.Name,
			"mobile":              member.Mobile,
			"email":               member.Email,
			"dob":                 member.DOB,
			"gender":              member.Gender,
			"address":             member.Address,
			"photoObjectKey":      member.PhotoObjectKey,
			"membershipPlanId":    member.MembershipPlanID,
			"membershipStartDate": member.MembershipStartDate,
			"membershipEndDate":   member.MembershipEndDate,
			"active":              member.Active,
			"updatedAt":           time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": member.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMemberIndexes creates necessary indexes. Call during startup.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Mobile is the member's unique handle within a gym.
			Keys:    bson.D{{Key: "gymId", Value: 1}, {Key: "mobile", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "gymId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
