package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogStatus tracks the realized outcome of a planned workout day.
type LogStatus string

const (
	LogStatusPending    LogStatus = "pending"
	LogStatusCompleted  LogStatus = "completed"
	LogStatusSkipped    LogStatus = "skipped"
	LogStatusTerminated LogStatus = "terminated"
)

// WorkoutLog is the realized outcome for one WorkoutPlanEntry on one date.
// Completed logs are immutable history: the swap resolver refuses to move
// plan entries whose dates carry a completed log.
type WorkoutLog struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID           primitive.ObjectID `bson:"memberId" json:"member_id"`
	CyclePlanID        primitive.ObjectID `bson:"cyclePlanId" json:"cycle_plan_id"`
	WorkoutPlanEntryID primitive.ObjectID `bson:"workoutPlanEntryId" json:"workout_plan_entry_id"`
	WorkoutDate        Date               `bson:"workoutDate" json:"workout_date"`
	Status             LogStatus          `bson:"status" json:"status"`

	ActualSets    int     `bson:"actualSets,omitempty" json:"actual_sets,omitempty"`
	ActualReps    int     `bson:"actualReps,omitempty" json:"actual_reps,omitempty"`
	ActualWeight  float64 `bson:"actualWeight,omitempty" json:"actual_weight,omitempty"`
	ActualMinutes int     `bson:"actualMinutes,omitempty" json:"actual_minutes,omitempty"`
	ActualRPE     int     `bson:"actualRpe,omitempty" json:"actual_rpe,omitempty"`
	Notes         string  `bson:"notes,omitempty" json:"actual_notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}
