package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CycleStatus is derived from today's date and the cycle window. It is
// persisted for display/query convenience but it is never authoritative:
// every write path recomputes it via CycleStatusOn.
type CycleStatus string

const (
	CycleStatusActive    CycleStatus = "Active"
	CycleStatusCompleted CycleStatus = "Completed"
	CycleStatusFuture    CycleStatus = "Future"
)

// CycleStatusOn derives the status of a [start, end] cycle window as of today.
func CycleStatusOn(today, start, end Date) CycleStatus {
	if today.After(end) {
		return CycleStatusCompleted
	}
	if today.Before(start) {
		return CycleStatusFuture
	}
	return CycleStatusActive
}

// Cycle is a contiguous, non-overlapping sub-period of a member's membership
// window. For a member the cycles are ordered by CycleNumber (1-based, no
// gaps) and chained chronologically: each cycle starts the day after the
// previous one ends, and no end date may pass the membership end date.
type Cycle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID    primitive.ObjectID `bson:"memberId" json:"member_id"`
	CycleNumber int                `bson:"cycleNumber" json:"cycle_number"`
	StartDate   Date               `bson:"startDate" json:"start_date"`
	EndDate     Date               `bson:"endDate" json:"end_date"` // inclusive
	Duration    int                `bson:"duration" json:"duration"`
	Status      CycleStatus        `bson:"status" json:"status"`
	IsDeleted   bool               `bson:"isDeleted" json:"is_deleted"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Days returns the inclusive length of the cycle window in days.
// Always equals Duration for a well-formed cycle.
func (c Cycle) Days() int {
	return c.StartDate.DaysUntil(c.EndDate) + 1
}

// Contains reports whether the date falls within the cycle window.
func (c Cycle) Contains(d Date) bool {
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}
