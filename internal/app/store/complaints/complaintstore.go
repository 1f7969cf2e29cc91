// internal/app/store/complaints/complaintstore.go
package complaintstore

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
	return &Store{c: db.Collection("complaints")}
}

// Create inserts a new complaint with both status axes at their initial
// values. The caller supplies the hostel/room/mobile snapshot taken from
// the filing student.
func (s *Store) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.StatusByStudent = models.StudentStatusPending
	c.StatusByStaff = models.StaffStatusUnsettled
	c.ResolvedAt = nil
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// GetByID loads a complaint by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// StudentFilter narrows a student's own complaint listing.
type StudentFilter struct {
	StatusByStudent string
	AssignedRole    string
}

// ListByStudent returns the student's complaints, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID, filter StudentFilter) ([]models.Complaint, error) {
	match := bson.M{"student_id": studentID}
	if filter.StatusByStudent != "" {
		match["status_by_student"] = filter.StatusByStudent
	}
	if filter.AssignedRole != "" {
		match["assigned_role"] = filter.AssignedRole
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var complaints []models.Complaint
	if err := cur.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// Resolve marks a complaint resolved on the student axis. The filter
// includes the student ID so a student can only resolve their own
// complaints; a non-owned or nonexistent ID both yield
// mongo.ErrNoDocuments.
func (s *Store) Resolve(ctx context.Context, id, studentID primitive.ObjectID) (*models.Complaint, error) {
	now := time.Now().UTC()
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "student_id": studentID},
		bson.M{"$set": bson.M{
			"status_by_student": models.StudentStatusResolved,
			"resolved_at":       now,
			"updated_at":        now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var c models.Complaint
	if err := res.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a complaint owned by the student. Returns the number of
// documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id, studentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// TasksForStaff returns the open work queue for one staff member: the
// complaints in their hostel whose assigned role is among their skills
// and which neither side has closed, oldest first. Room number and
// student name are joined for display.
func (s *Store) TasksForStaff(ctx context.Context, hostelID primitive.ObjectID, skills []string) ([]models.StaffTask, error) {
	if len(skills) == 0 {
		return nil, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"hostel_id":         hostelID,
			"assigned_role":     bson.M{"$in": skills},
			"status_by_staff":   models.StaffStatusUnsettled,
			"status_by_student": models.StudentStatusPending,
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "rooms",
			"localField":   "room_id",
			"foreignField": "_id",
			"as":           "room_doc",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "student_id",
			"foreignField": "_id",
			"as":           "student_doc",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"room_number": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$room_doc.number", 0}},
				"",
			}},
			"student_name": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$student_doc.full_name", 0}},
				"",
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"room_doc":    0,
			"student_doc": 0,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.StaffTask
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Settle marks a complaint settled on the staff axis. The filter carries
// the staff member's hostel and skill set, so the update and the scope
// check are one atomic operation; out-of-scope and nonexistent IDs are
// indistinguishable and both yield mongo.ErrNoDocuments.
func (s *Store) Settle(ctx context.Context, id, hostelID primitive.ObjectID, skills []string) (*models.Complaint, error) {
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":           id,
			"hostel_id":     hostelID,
			"assigned_role": bson.M{"$in": skills},
		},
		bson.M{"$set": bson.M{
			"status_by_staff": models.StaffStatusSettled,
			"updated_at":      time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var c models.Complaint
	if err := res.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
