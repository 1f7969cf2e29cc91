// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/am1456/hostelhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	rooms *mongo.Collection
	users *mongo.Collection
}

var ErrDuplicateNumber = errors.New("a room with this number already exists in the hostel")

// batchCleanupTimeout bounds the delete that unwinds a failed batch.
// It runs on a fresh context because the batch context may already be
// dead.
const batchCleanupTimeout = 5 * time.Second

func New(db *mongo.Database) *Store {
	return &Store{
		rooms: db.Collection("rooms"),
		users: db.Collection("users"),
	}
}

// CreateBatch inserts count rooms for the hostel, numbered consecutively
// from start. Every room gets the same capacity (minimum 1). The whole
// batch is one ordered InsertMany; on any failure the already-inserted
// prefix is removed again, and a duplicate number maps to
// ErrDuplicateNumber. Either every room exists afterwards or none do.
func (s *Store) CreateBatch(ctx context.Context, hostelID primitive.ObjectID, start, count, capacity int) ([]models.Room, error) {
	if count <= 0 {
		return nil, nil
	}
	if capacity < 1 {
		capacity = 1
	}

	now := time.Now().UTC()
	rooms := make([]models.Room, 0, count)
	docs := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		room := models.Room{
			ID:        primitive.NewObjectID(),
			Number:    strconv.Itoa(start + i),
			HostelID:  hostelID,
			Capacity:  capacity,
			Occupants: []primitive.ObjectID{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		rooms = append(rooms, room)
		docs = append(docs, room)
	}

	if _, insErr := s.rooms.InsertMany(ctx, docs); insErr != nil {
		// Ordered InsertMany stops at the first rejected document but
		// keeps the prefix it already wrote. Remove that prefix so the
		// batch stays all-or-nothing.
		ids := make([]primitive.ObjectID, 0, len(rooms))
		for _, room := range rooms {
			ids = append(ids, room.ID)
		}
		cleanupCtx, cancel := context.WithTimeout(context.Background(), batchCleanupTimeout)
		defer cancel()
		_, delErr := s.rooms.DeleteMany(cleanupCtx, bson.M{"_id": bson.M{"$in": ids}})

		if wafflemongo.IsDup(insErr) {
			insErr = ErrDuplicateNumber
		}
		if delErr != nil {
			return nil, errors.Join(insErr, delErr)
		}
		return nil, insErr
	}
	return rooms, nil
}

// ExistingNumbers returns the set of room numbers already present in the
// hostel. The provisioner checks a whole proposed range against this set
// before inserting anything, so a single collision aborts the batch with
// zero writes.
func (s *Store) ExistingNumbers(ctx context.Context, hostelID primitive.ObjectID) (map[string]struct{}, error) {
	opts := options.Find().SetProjection(bson.M{"number": 1})
	cur, err := s.rooms.Find(ctx, bson.M{"hostel_id": hostelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	numbers := make(map[string]struct{})
	for cur.Next(ctx) {
		var doc struct {
			Number string `bson:"number"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		numbers[doc.Number] = struct{}{}
	}
	return numbers, cur.Err()
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Room, error) {
	var room models.Room
	if err := s.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// Occupancy returns the number of students currently assigned to the
// room. Occupancy is always derived from users.room_id, never from the
// room document itself.
func (s *Store) Occupancy(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	return s.users.CountDocuments(ctx, bson.M{"room_id": roomID, "role": models.RoleStudent})
}

// AvailableByHostel returns the hostel's rooms that still have space,
// with the derived occupant count attached. Sorted by room number.
func (s *Store) AvailableByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.AvailableRoom, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cur, err := s.rooms.Find(ctx, bson.M{"hostel_id": hostelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}

	available := make([]models.AvailableRoom, 0, len(rooms))
	for _, room := range rooms {
		count, err := s.Occupancy(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		if int(count) < room.Capacity {
			available = append(available, models.AvailableRoom{
				Room:             room,
				CurrentOccupants: int(count),
			})
		}
	}
	return available, nil
}

// LastNumber returns the highest numeric room number in the hostel, or 0
// when the hostel has no numerically-named rooms.
func (s *Store) LastNumber(ctx context.Context, hostelID primitive.ObjectID) (int, error) {
	opts := options.Find().SetProjection(bson.M{"number": 1})
	cur, err := s.rooms.Find(ctx, bson.M{"hostel_id": hostelID}, opts)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	last := 0
	for cur.Next(ctx) {
		var doc struct {
			Number string `bson:"number"`
		}
		if err := cur.Decode(&doc); err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(doc.Number)
		if err != nil {
			continue
		}
		if n > last {
			last = n
		}
	}
	return last, cur.Err()
}

// DeleteByHostel removes every room belonging to the hostel. Returns the
// number of rooms deleted.
func (s *Store) DeleteByHostel(ctx context.Context, hostelID primitive.ObjectID) (int64, error) {
	res, err := s.rooms.DeleteMany(ctx, bson.M{"hostel_id": hostelID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
