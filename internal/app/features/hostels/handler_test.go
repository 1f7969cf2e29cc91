package hostels_test

import (
	"net/http"
	"testing"

	"github.com/am1456/hostelhub/internal/app/features/hostels"
	hostelstore "github.com/am1456/hostelhub/internal/app/store/hostels"
	roomstore "github.com/am1456/hostelhub/internal/app/store/rooms"
	"github.com/am1456/hostelhub/internal/app/system/indexes"
	"github.com/am1456/hostelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*hostels.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return hostels.NewHandler(hostelstore.New(db), roomstore.New(db), zap.NewNop()), db
}

func TestServeAddHostel_ProvisionsRooms(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/hostel/add-hostel", map[string]any{
		"name":            "  Aryabhatta Hostel ",
		"code":            "abh",
		"totalRooms":      3,
		"startRoomNumber": 201,
		"capacity":        2,
	}, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeAddHostel(rec, req)
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Hostel created successfully")

	env := rec.Envelope(t)
	data := env["data"].(map[string]any)
	if got := data["roomsCreated"].(float64); got != 3 {
		t.Errorf("roomsCreated: got %v, want 3", got)
	}

	n, err := db.Collection("rooms").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if n != 3 {
		t.Errorf("rooms in db: got %d, want 3", n)
	}
}

func TestServeAddHostel_RollbackOnRoomBatchFailure(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Force the room batch to fail after the hostel insert: room numbers
	// are stored as strings, so a collection validator demanding an int
	// rejects every room document.
	err := db.CreateCollection(ctx, "rooms",
		options.CreateCollection().SetValidator(bson.M{"number": bson.M{"$type": "int"}}))
	if err != nil {
		t.Fatalf("create rooms collection: %v", err)
	}

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/hostel/add-hostel", map[string]any{
		"name":       "Aryabhatta Hostel",
		"code":       "ABH",
		"totalRooms": 3,
	}, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeAddHostel(rec, req)
	rec.AssertStatus(t, http.StatusInternalServerError)

	// The compensating delete must have removed the hostel again.
	err = db.Collection("hostels").FindOne(ctx, bson.M{"code": "ABH"}).Err()
	if err != mongo.ErrNoDocuments {
		t.Errorf("hostel should not survive a failed room batch, FindOne err: %v", err)
	}
	n, err := db.Collection("rooms").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if n != 0 {
		t.Errorf("rooms after failed provisioning: got %d, want 0", n)
	}
}

func TestServeAddHostel_MissingFields(t *testing.T) {
	h, _ := newHandler(t)

	for _, body := range []map[string]any{
		{"code": "ABH", "totalRooms": 3},
		{"name": "Aryabhatta", "totalRooms": 3},
		{"name": "Aryabhatta", "code": "ABH"},
		{"name": "Aryabhatta", "code": "ABH", "totalRooms": 0},
	} {
		req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/hostel/add-hostel", body, testutil.AdminPrincipal())
		rec := testutil.NewRecorder()

		h.ServeAddHostel(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestServeAddHostel_DuplicateCode(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	testutil.NewFixtures(t, db).CreateHostel(ctx, "Aryabhatta", "ABH")

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/hostel/add-hostel", map[string]any{
		"name":       "Another",
		"code":       "abh",
		"totalRooms": 2,
	}, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeAddHostel(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "already exists")
}

func TestServeGetAllHostels(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateHostel(ctx, "Aryabhatta", "ABH")
	f.CreateHostel(ctx, "Bhaskara", "BKH")

	req := testutil.NewAuthenticatedRequest("GET", "/hostel/get-all-hostels", testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeGetAllHostels(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Aryabhatta")
	rec.AssertContains(t, "BKH")
}

func TestServeHostelCount(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateHostel(ctx, "Aryabhatta", "ABH")
	f.CreateHostel(ctx, "Bhaskara", "BKH")

	req := testutil.NewRequest("GET", "/hostel/hostel-count")
	rec := testutil.NewRecorder()

	h.ServeHostelCount(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	env := rec.Envelope(t)
	data := env["data"].(map[string]any)
	if got := data["count"].(float64); got != 2 {
		t.Errorf("count: got %v, want 2", got)
	}
}
