// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"time"

	"github.com/am1456/hostelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("student_profiles")}
}

// Upsert writes the student's profile, keyed on user_id. A second submit
// replaces the previous profile rather than erroring; created_at is only
// set on first insert.
func (s *Store) Upsert(ctx context.Context, p models.StudentProfile) (models.StudentProfile, error) {
	now := time.Now().UTC()
	p.UpdatedAt = now

	set := bson.M{
		"gender":                  p.Gender,
		"date_of_birth":           p.DateOfBirth,
		"blood_group":             p.BloodGroup,
		"nationality":             p.Nationality,
		"category":                p.Category,
		"admission_year":          p.AdmissionYear,
		"course":                  p.Course,
		"branch":                  p.Branch,
		"father_name":             p.FatherName,
		"father_phone":            p.FatherPhone,
		"mother_name":             p.MotherName,
		"mother_phone":            p.MotherPhone,
		"local_guardian_name":     p.LocalGuardianName,
		"local_guardian_phone":    p.LocalGuardianPhone,
		"local_guardian_relation": p.LocalGuardianRelation,
		"address_line1":           p.AddressLine1,
		"address_line2":           p.AddressLine2,
		"city":                    p.City,
		"state":                   p.State,
		"pincode":                 p.Pincode,
		"has_chronic_disease":     p.HasChronicDisease,
		"chronic_disease_details": p.ChronicDiseaseDetails,
		"emergency_contact_name":  p.EmergencyContactName,
		"emergency_contact_phone": p.EmergencyContactPhone,
		"updated_at":              p.UpdatedAt,
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": p.UserID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"user_id": p.UserID, "created_at": now},
		},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	)

	var saved models.StudentProfile
	if err := res.Decode(&saved); err != nil {
		return models.StudentProfile{}, err
	}
	return saved, nil
}

// GetByUser loads the profile for one student. Returns
// mongo.ErrNoDocuments when the student has not filled one in.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.StudentProfile, error) {
	var p models.StudentProfile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether the student has a stored profile.
func (s *Store) Exists(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByUser removes the student's profile, used when the student
// account itself is deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
