package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// TenantContext identifies the gym and user behind a request. It is built
// from the JWT claims by the auth middleware and passed explicitly into every
// service call; nothing in the system reads a "current gym" from ambient
// session state.
type TenantContext struct {
	UserID primitive.ObjectID
	GymID  primitive.ObjectID
	Role   Role
}

// OwnsMember reports whether the member belongs to this tenant's gym.
func (t TenantContext) OwnsMember(m *Member) bool {
	return m != nil && m.GymID == t.GymID
}
