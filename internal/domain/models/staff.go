// internal/domain/models/staff.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff is a maintenance worker. Staff live in their own collection and
// credential space: they log in with phone + PIN rather than username +
// password, but follow the same token protocol as users.
//
// Roles is the set of skill tags this worker covers (see AllSkills).
// A complaint is visible to a worker when its assigned role is in this set
// and the hostels match.
type Staff struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	Phone    string             `bson:"phone" json:"phone"`
	PIN      string             `bson:"pin" json:"-"` // bcrypt hash
	Roles    []string           `bson:"roles" json:"roles"`
	HostelID primitive.ObjectID `bson:"hostel_id" json:"hostel_id"`

	RefreshToken string `bson:"refresh_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
