// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents students, wardens, admins, and the super admin.
//
// NOTE:
//   - Password holds a bcrypt hash and is never serialized to JSON.
//   - RefreshToken holds the single currently-valid refresh token for this
//     user. A new login or refresh replaces it, invalidating the old one.
//   - Students must reference both a hostel and a room; wardens a hostel;
//     admin roles neither.
type User struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username   string              `bson:"username" json:"username"`
	FullName   string              `bson:"full_name" json:"full_name"`
	FullNameCI string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string              `bson:"email" json:"email"`
	Password   string              `bson:"password" json:"-"`
	Mobile     string              `bson:"mobile" json:"mobile"`
	Role       string              `bson:"role" json:"role"`
	HostelID   *primitive.ObjectID `bson:"hostel_id,omitempty" json:"hostel_id,omitempty"`
	RoomID     *primitive.ObjectID `bson:"room_id,omitempty" json:"room_id,omitempty"`

	RefreshToken string `bson:"refresh_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HostelRef is the projection of a hostel joined onto user listings.
type HostelRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
	Code string             `bson:"code" json:"code"`
}

// RoomRef is the projection of a room joined onto user listings.
type RoomRef struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Number string             `bson:"number" json:"number"`
}

// UserDetail is a user with hostel and room references resolved.
// Password and refresh token are excluded by the store projection.
type UserDetail struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"full_name" json:"full_name"`
	Email    string             `bson:"email" json:"email"`
	Mobile   string             `bson:"mobile" json:"mobile"`
	Role     string             `bson:"role" json:"role"`
	Hostel   *HostelRef         `bson:"hostel,omitempty" json:"hostel,omitempty"`
	Room     *RoomRef           `bson:"room,omitempty" json:"room,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
