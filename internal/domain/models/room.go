// internal/domain/models/room.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is a single room inside a hostel.
//
// NOTE:
//   - Occupants is kept for compatibility with older data but is NOT
//     authoritative. Occupancy is always derived by counting users whose
//     room_id equals this room's ID.
//   - (hostel_id, number) is unique per hostel. The provisioner pre-checks
//     this before batch inserts; a compound unique index is the backstop.
type Room struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Number    string               `bson:"number" json:"number"`
	HostelID  primitive.ObjectID   `bson:"hostel_id" json:"hostel_id"`
	Capacity  int                  `bson:"capacity" json:"capacity"`
	Occupants []primitive.ObjectID `bson:"occupants" json:"occupants"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AvailableRoom is a room plus its derived occupancy, used by the
// room-picker endpoint. CurrentOccupants is computed per request and
// never persisted.
type AvailableRoom struct {
	Room             `bson:",inline"`
	CurrentOccupants int `bson:"-" json:"currentOccupants"`
}
