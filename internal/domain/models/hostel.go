// internal/domain/models/hostel.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hostel is a building that rooms belong to.
//
// Code is the short unique identifier shown in dropdowns and reports
// (e.g. "HA" for "A Block"). A unique index on code backs the
// application-level uniqueness check.
type Hostel struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
	Code string             `bson:"code" json:"code"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
