// internal/domain/models/studentprofile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentProfile is the one-to-one personal record extending a student
// user. Academic fields (admission year, course, branch) are not supplied
// by the student; they are decoded from the username's enrollment ID
// format by the students feature.
type StudentProfile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	// Personal
	Gender      string    `bson:"gender" json:"gender"`
	DateOfBirth time.Time `bson:"date_of_birth" json:"date_of_birth"`
	BloodGroup  string    `bson:"blood_group" json:"blood_group"`
	Nationality string    `bson:"nationality,omitempty" json:"nationality,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`

	// Academic (derived from username)
	AdmissionYear int    `bson:"admission_year" json:"admission_year"`
	Course        string `bson:"course" json:"course"`
	Branch        string `bson:"branch" json:"branch"`

	// Family / guardian
	FatherName            string `bson:"father_name" json:"father_name"`
	FatherPhone           string `bson:"father_phone" json:"father_phone"`
	MotherName            string `bson:"mother_name" json:"mother_name"`
	MotherPhone           string `bson:"mother_phone,omitempty" json:"mother_phone,omitempty"`
	LocalGuardianName     string `bson:"local_guardian_name,omitempty" json:"local_guardian_name,omitempty"`
	LocalGuardianPhone    string `bson:"local_guardian_phone,omitempty" json:"local_guardian_phone,omitempty"`
	LocalGuardianRelation string `bson:"local_guardian_relation,omitempty" json:"local_guardian_relation,omitempty"`

	// Permanent address
	AddressLine1 string `bson:"address_line1" json:"address_line1"`
	AddressLine2 string `bson:"address_line2,omitempty" json:"address_line2,omitempty"`
	City         string `bson:"city" json:"city"`
	State        string `bson:"state" json:"state"`
	Pincode      string `bson:"pincode" json:"pincode"`

	// Medical & emergency
	HasChronicDisease     bool   `bson:"has_chronic_disease" json:"has_chronic_disease"`
	ChronicDiseaseDetails string `bson:"chronic_disease_details,omitempty" json:"chronic_disease_details,omitempty"`
	EmergencyContactName  string `bson:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string `bson:"emergency_contact_phone" json:"emergency_contact_phone"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Blood groups accepted on a student profile.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// IsValidBloodGroup reports whether value is an accepted blood group.
func IsValidBloodGroup(value string) bool {
	for _, g := range BloodGroups {
		if g == value {
			return true
		}
	}
	return false
}
