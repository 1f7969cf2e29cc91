// internal/app/store/staff/staffstore.go
package staffstore

import (
	"context"
	"errors"
	"time"

	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/normalize"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicatePhone is returned when the phone number is already registered.
	ErrDuplicatePhone = errors.New("a staff member with this phone already exists")
	errBadSkill       = errors.New("staff roles must be valid skill tags")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("staff")}
}

// Create inserts a new staff member. Every entry in Roles must be a
// known skill tag.
func (s *Store) Create(ctx context.Context, staff models.Staff) (models.Staff, error) {
	staff.ID = primitive.NewObjectID()
	staff.FullName = normalize.Name(staff.FullName)
	staff.Phone = normalize.Phone(staff.Phone)

	for i, role := range staff.Roles {
		role = normalize.Skill(role)
		if !models.IsValidSkill(role) {
			return models.Staff{}, errBadSkill
		}
		staff.Roles[i] = role
	}

	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, staff); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Staff{}, ErrDuplicatePhone
		}
		return models.Staff{}, err
	}
	return staff, nil
}

// GetByID loads a staff member by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	var st models.Staff
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetByPhone looks up a staff member by normalized phone number. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.Staff, error) {
	var st models.Staff
	if err := s.c.FindOne(ctx, bson.M{"phone": normalize.Phone(phone)}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SetRefreshToken replaces the staff member's stored refresh token.
// Pass "" to clear it on logout.
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

// Fetcher implements auth.PrincipalLoader for the staff credential space.
type Fetcher struct {
	staff *mongo.Collection
}

// NewFetcher creates a PrincipalLoader that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{staff: db.Collection("staff")}
}

// LoadPrincipal retrieves a staff member by ID and maps it to an auth
// principal carrying the skill set and hostel scope.
func (f *Fetcher) LoadPrincipal(ctx context.Context, id primitive.ObjectID) (*auth.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var st models.Staff
	if err := f.staff.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return nil, err
	}

	hostelID := st.HostelID
	return &auth.Principal{
		ID:       st.ID,
		Name:     st.FullName,
		Mobile:   st.Phone,
		Space:    auth.SpaceStaff,
		Skills:   st.Roles,
		HostelID: &hostelID,
	}, nil
}
