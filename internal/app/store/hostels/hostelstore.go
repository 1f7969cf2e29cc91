// internal/app/store/hostels/hostelstore.go
package hostelstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/am1456/hostelhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateCode = errors.New("a hostel with this code already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("hostels")}
}

// Create inserts a new hostel. The code is stored uppercase so lookups
// and the unique index are case-insensitive in practice.
func (s *Store) Create(ctx context.Context, hostel models.Hostel) (models.Hostel, error) {
	now := time.Now().UTC()
	hostel.ID = primitive.NewObjectID()
	hostel.Name = strings.TrimSpace(hostel.Name)
	hostel.Code = strings.ToUpper(strings.TrimSpace(hostel.Code))
	hostel.CreatedAt = now
	hostel.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, hostel); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Hostel{}, ErrDuplicateCode
		}
		return models.Hostel{}, err
	}
	return hostel, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Hostel, error) {
	var hostel models.Hostel
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&hostel); err != nil {
		return models.Hostel{}, err
	}
	return hostel, nil
}

// GetAll returns every hostel, oldest first.
func (s *Store) GetAll(ctx context.Context) ([]models.Hostel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hostels []models.Hostel
	if err := cur.All(ctx, &hostels); err != nil {
		return nil, err
	}
	return hostels, nil
}

// ExistsByCode checks whether a hostel with the given code already exists.
func (s *Store) ExistsByCode(ctx context.Context, code string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the total number of hostels.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Delete removes a hostel by ID. Returns the number of documents deleted
// (0 or 1). Used both by admin removal and as the compensation step when
// room provisioning fails after the hostel insert.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
