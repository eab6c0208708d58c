package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetKind tags the planned-metrics variant of a plan entry.
// An exercise is either sets-based (sets x reps at a weight) or time-based
// (minutes); the two are mutually exclusive.
type TargetKind string

const (
	TargetSets TargetKind = "sets"
	TargetTime TargetKind = "time"
)

// PlannedTarget is the tagged planned-metrics variant. Exactly one of the
// sets-triple or Minutes is meaningful, selected by Kind.
type PlannedTarget struct {
	Kind    TargetKind `bson:"kind" json:"kind"`
	Sets    int        `bson:"sets,omitempty" json:"planned_sets,omitempty"`
	Reps    int        `bson:"reps,omitempty" json:"planned_reps,omitempty"`
	Weight  float64    `bson:"weight,omitempty" json:"planned_weight,omitempty"`
	Minutes int        `bson:"minutes,omitempty" json:"planned_minutes,omitempty"`
	RPE     int        `bson:"rpe,omitempty" json:"planned_rpe,omitempty"`
}

// IsTimeBased reports whether the target is the minutes variant.
func (t PlannedTarget) IsTimeBased() bool {
	return t.Kind == TargetTime
}

// WorkoutPlanEntry is one planned exercise assignment for one calendar date
// within one cycle. The swap resolver only ever re-stamps DayDate; the
// exercise/workout references and planned metrics travel with the entry.
type WorkoutPlanEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CyclePlanID primitive.ObjectID `bson:"cyclePlanId" json:"cycle_plan_id"`
	DayDate     Date               `bson:"dayDate" json:"day_date"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workout_id"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exercise_id"`
	Target      PlannedTarget      `bson:"target" json:"target"`
	Notes       string             `bson:"notes,omitempty" json:"planned_notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}
