package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a person enrolled at a gym. The membership window
// [MembershipStartDate, MembershipEndDate] bounds all of the member's cycles.
type Member struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GymID            primitive.ObjectID `bson:"gymId" json:"gym_id"`
	MembershipPlanID primitive.ObjectID `bson:"membershipPlanId,omitempty" json:"membership_plan_id,omitempty"`
	Name             string             `bson:"name" json:"name"`
	Mobile           string             `bson:"mobile" json:"mobile"` // unique per gym
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	DOB              Date               `bson:"dob,omitempty" json:"dob,omitempty"`
	Gender           string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	PhotoObjectKey   string             `bson:"photoObjectKey,omitempty" json:"-"` // S3 key, exposed only via presigned URLs
	JoinDate         Date               `bson:"joinDate" json:"join_date"`
	Active           bool               `bson:"active" json:"active"`

	MembershipStartDate Date `bson:"membershipStartDate" json:"membership_start_date"`
	MembershipEndDate   Date `bson:"membershipEndDate" json:"membership_end_date"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}
