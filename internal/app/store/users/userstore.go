package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/am1456/hostelhub/internal/app/system/normalize"
	"github.com/am1456/hostelhub/internal/app/system/paging"
	"github.com/am1456/hostelhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	errBadRole           = errors.New(`role must be "student"|"warden"|"admin"|"superAdmin"`)
	errHostelNeeded      = errors.New("warden must have hostel_id")
	errRoomNeeded        = errors.New("student must have hostel_id and room_id")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by normalized username. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username": normalize.Username(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// Placement invariants are enforced here: students need a hostel and a
// room, wardens a hostel. Room-within-hostel and capacity checks are the
// caller's responsibility since they span collections.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Username(u.Username)
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Mobile = normalize.Phone(u.Mobile)

	switch u.Role {
	case models.RoleStudent:
		if u.HostelID == nil || u.RoomID == nil {
			return models.User{}, errRoomNeeded
		}
	case models.RoleWarden:
		if u.HostelID == nil {
			return models.User{}, errHostelNeeded
		}
	case models.RoleAdmin, models.RoleSuperAdmin:
		// no placement
	default:
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// CountByRole returns the number of users with the given role. Used to
// enforce the single-super-admin invariant.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}

// CountByRoom returns the number of students assigned to the room.
func (s *Store) CountByRoom(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"room_id": roomID, "role": models.RoleStudent})
}

// Delete removes a user by ID. Returns the number of documents deleted
// (0 or 1). Also the compensation step when an enrollment overfills a
// room under concurrency.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Update holds the allow-listed fields an admin may patch on a user.
// Nil pointers mean "leave unchanged".
type Update struct {
	FullName *string
	Email    *string
	Username *string
	Mobile   *string
	HostelID *primitive.ObjectID
	RoomID   *primitive.ObjectID
}

// Patch applies a partial update and refreshes UpdatedAt. Returns
// ErrDuplicateUsername when the new username collides.
func (s *Store) Patch(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Username != nil {
		set["username"] = normalize.Username(*upd.Username)
	}
	if upd.Mobile != nil {
		set["mobile"] = normalize.Phone(*upd.Mobile)
	}
	if upd.HostelID != nil {
		set["hostel_id"] = *upd.HostelID
	}
	if upd.RoomID != nil {
		set["room_id"] = *upd.RoomID
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRefreshToken replaces the user's stored refresh token. Pass "" to
// clear it (logout, password change).
func (s *Store) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"refresh_token": token,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetPassword stores a new password hash and clears the refresh token so
// existing sessions cannot be extended past the current access token.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":      hash,
		"refresh_token": "",
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListFilter narrows the admin user directory.
type ListFilter struct {
	Role     string
	HostelID *primitive.ObjectID
	Search   string
}

// List returns the admin user directory with hostel and room references
// joined, newest first, plus the total matching count for pagination.
// Unless a role filter is given, admin and superAdmin accounts are
// excluded from the listing.
func (s *Store) List(ctx context.Context, filter ListFilter, page paging.Params) ([]models.UserDetail, int64, error) {
	match := bson.M{}
	if filter.Role != "" {
		match["role"] = filter.Role
	} else {
		match["role"] = bson.M{"$nin": bson.A{models.RoleAdmin, models.RoleSuperAdmin}}
	}
	if filter.HostelID != nil {
		match["hostel_id"] = *filter.HostelID
	}
	if q := normalize.Query(filter.Search); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"username": re},
			bson.M{"full_name": re},
		}
	}

	total, err := s.c.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$skip", Value: page.Skip()}},
		bson.D{{Key: "$limit", Value: page.Limit64()}},
	}
	pipeline = append(pipeline, joinRefsStages()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []models.UserDetail
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetDetail loads a single user with hostel and room references joined.
func (s *Store) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.UserDetail, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	pipeline = append(pipeline, joinRefsStages()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.UserDetail
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &users[0], nil
}

// StudentWithRoom is a student row in a warden's listing.
type StudentWithRoom struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Username   string             `bson:"username" json:"username"`
	FullName   string             `bson:"full_name" json:"full_name"`
	Email      string             `bson:"email" json:"email"`
	Mobile     string             `bson:"mobile" json:"mobile"`
	RoomNumber string             `bson:"room_number" json:"room_number"`
}

// StudentsByHostel returns the students of one hostel with their room
// numbers, sorted by room then name, plus the total matching count.
func (s *Store) StudentsByHostel(ctx context.Context, hostelID primitive.ObjectID, search string, page paging.Params) ([]StudentWithRoom, int64, error) {
	match := bson.M{"hostel_id": hostelID, "role": models.RoleStudent}
	if q := normalize.Query(search); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"username": re},
			bson.M{"full_name": re},
		}
	}

	total, err := s.c.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "rooms",
			"localField":   "room_id",
			"foreignField": "_id",
			"as":           "room_doc",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"room_number": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$room_doc.number", 0}},
				"",
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "room_number", Value: 1},
			{Key: "full_name_ci", Value: 1},
		}}},
		bson.D{{Key: "$skip", Value: page.Skip()}},
		bson.D{{Key: "$limit", Value: page.Limit64()}},
		bson.D{{Key: "$project", Value: bson.M{
			"username":    1,
			"full_name":   1,
			"email":       1,
			"mobile":      1,
			"room_number": 1,
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var students []StudentWithRoom
	if err := cur.All(ctx, &students); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// joinRefsStages resolves hostel_id and room_id into embedded reference
// documents and drops credential fields from the output.
func joinRefsStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "hostels",
			"localField":   "hostel_id",
			"foreignField": "_id",
			"as":           "hostel_doc",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "rooms",
			"localField":   "room_id",
			"foreignField": "_id",
			"as":           "room_doc",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"hostel": bson.M{"$arrayElemAt": bson.A{"$hostel_doc", 0}},
			"room":   bson.M{"$arrayElemAt": bson.A{"$room_doc", 0}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"password":      0,
			"refresh_token": 0,
			"hostel_doc":    0,
			"room_doc":      0,
			"full_name_ci":  0,
		}}},
	}
}
