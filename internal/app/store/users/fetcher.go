package userstore

import (
	"context"

	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.PrincipalLoader for the user credential space.
// Loading fresh per request means deletions and role changes take effect
// immediately rather than at token expiry.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a PrincipalLoader that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// LoadPrincipal retrieves a user by ID and maps it to an auth principal.
func (f *Fetcher) LoadPrincipal(ctx context.Context, id primitive.ObjectID) (*auth.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"username":  1,
		"full_name": 1,
		"mobile":    1,
		"role":      1,
		"hostel_id": 1,
		"room_id":   1,
	})

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&u); err != nil {
		return nil, err
	}

	return &auth.Principal{
		ID:       u.ID,
		Name:     u.FullName,
		Username: u.Username,
		Mobile:   u.Mobile,
		Space:    auth.SpaceUser,
		Role:     u.Role,
		HostelID: u.HostelID,
		RoomID:   u.RoomID,
	}, nil
}
