// internal/domain/models/complaint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint status values. The two status fields are independent axes:
// the student's view of the complaint and the staff's. A complaint can be
// settled by staff while the student still sees it as pending, and vice
// versa. Each axis has exactly one transition and is terminal after it.
const (
	StudentStatusPending  = "PENDING"
	StudentStatusResolved = "RESOLVED"

	StaffStatusUnsettled = "UNSETTLED"
	StaffStatusSettled   = "SETTLED"
)

// Complaint is a maintenance issue filed by a student.
//
// NOTE:
//   - HostelID, RoomID, and Mobile are snapshots of the student's
//     assignment at creation time. They are intentionally not re-synced if
//     the student later moves rooms; the complaint records where the
//     problem was reported.
type Complaint struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	HostelID    primitive.ObjectID `bson:"hostel_id" json:"hostel_id"`
	RoomID      primitive.ObjectID `bson:"room_id" json:"room_id"`
	Mobile      string             `bson:"mobile" json:"mobile"`

	AssignedRole    string     `bson:"assigned_role" json:"assigned_role"`
	StatusByStudent string     `bson:"status_by_student" json:"status_by_student"`
	StatusByStaff   string     `bson:"status_by_staff" json:"status_by_staff"`
	ResolvedAt      *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StaffTask is a complaint joined with room number and student name for
// the staff work queue.
type StaffTask struct {
	Complaint   `bson:",inline"`
	RoomNumber  string `bson:"room_number" json:"room_number"`
	StudentName string `bson:"student_name" json:"student_name"`
}
