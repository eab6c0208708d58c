package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish admin-console user roles.
type Role string

const (
	RoleAdmin Role = "admin" // gym owner, full access
	RoleStaff Role = "staff" // instructor/officer, day-to-day operations
)

// User represents an admin-console account belonging to one gym.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GymID        primitive.ObjectID `bson:"gymId" json:"gym_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // never expose via JSON
	Role         Role               `bson:"role" json:"role"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
