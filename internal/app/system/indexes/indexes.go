// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureHostels(ctx, db); err != nil {
		problems = append(problems, "hostels: "+err.Error())
	}
	if err := ensureRooms(ctx, db); err != nil {
		problems = append(problems, "rooms: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureStaff(ctx, db); err != nil {
		problems = append(problems, "staff: "+err.Error())
	}
	if err := ensureStudentProfiles(ctx, db); err != nil {
		problems = append(problems, "student_profiles: "+err.Error())
	}
	if err := ensureComplaints(ctx, db); err != nil {
		problems = append(problems, "complaints: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureHostels(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("hostels"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("uniq_code").SetUnique(true),
		},
	})
}

func ensureRooms(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("rooms"), []mongo.IndexModel{
		// Backstop for the provisioner's pre-check: room numbers are
		// unique per hostel, not globally.
		{
			Keys:    bson.D{{Key: "hostel_id", Value: 1}, {Key: "number", Value: 1}},
			Options: options.Index().SetName("uniq_hostel_number").SetUnique(true),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("uniq_username").SetUnique(true),
		},
		// Occupancy counts filter on room_id.
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}},
			Options: options.Index().SetName("by_room"),
		},
		// Warden student listings filter on hostel + role.
		{
			Keys:    bson.D{{Key: "hostel_id", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetName("by_hostel_role"),
		},
	})
}

func ensureStaff(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("staff"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("uniq_phone").SetUnique(true),
		},
	})
}

func ensureStudentProfiles(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("student_profiles"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_user").SetUnique(true),
		},
	})
}

func ensureComplaints(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("complaints"), []mongo.IndexModel{
		// Staff work queue: hostel + skill + both status axes, FIFO.
		{
			Keys: bson.D{
				{Key: "hostel_id", Value: 1},
				{Key: "assigned_role", Value: 1},
				{Key: "status_by_staff", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("staff_queue"),
		},
		// Student's own complaint list, newest first.
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_student"),
		},
	})
}

/* -------------------------------------------------------------------------- */
/* Core helper                                                                */
/* -------------------------------------------------------------------------- */

// ensureIndexSet creates the desired indexes, tolerating ones that
// already exist. Mongo treats CreateMany with an identical spec as a
// no-op; an IndexOptionsConflict means an index with the same keys
// exists under a different name or options and is surfaced as an error
// so operators can reconcile by hand rather than have startup silently
// drop indexes.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		zap.L().Error("ensure indexes failed",
			zap.String("collection", coll.Name()),
			zap.Error(err))
		return err
	}
	zap.L().Info("indexes ensured",
		zap.String("collection", coll.Name()),
		zap.Strings("names", names))
	return nil
}
