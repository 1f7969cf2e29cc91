package admin_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/am1456/hostelhub/internal/app/features/admin"
	hostelstore "github.com/am1456/hostelhub/internal/app/store/hostels"
	profilestore "github.com/am1456/hostelhub/internal/app/store/profiles"
	roomstore "github.com/am1456/hostelhub/internal/app/store/rooms"
	userstore "github.com/am1456/hostelhub/internal/app/store/users"
	"github.com/am1456/hostelhub/internal/app/system/indexes"
	"github.com/am1456/hostelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, allowSuperAdmin bool) (*admin.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := admin.NewHandler(userstore.New(db), hostelstore.New(db), roomstore.New(db), profilestore.New(db), allowSuperAdmin, zap.NewNop())
	return h, db
}

func createBody(username string) map[string]any {
	return map[string]any{
		"fullName": "Asha Rao",
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-password",
		"mobile":   "9876543210",
	}
}

func TestServeCreateSuperAdmin_FlagOff(t *testing.T) {
	h, _ := newHandler(t, false)

	req := testutil.NewJSONRequest(t, "POST", "/admin/create-super-admin", createBody("root.admin"))
	rec := testutil.NewRecorder()

	h.ServeCreateSuperAdmin(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "Super admin creation is disabled")
}

func TestServeCreateSuperAdmin_OnlyOneEver(t *testing.T) {
	h, _ := newHandler(t, true)

	req := testutil.NewJSONRequest(t, "POST", "/admin/create-super-admin", createBody("root.admin"))
	rec := testutil.NewRecorder()

	h.ServeCreateSuperAdmin(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	// A second super admin is refused even with the flag on.
	req = testutil.NewJSONRequest(t, "POST", "/admin/create-super-admin", createBody("other.admin"))
	rec = testutil.NewRecorder()

	h.ServeCreateSuperAdmin(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "A super admin already exists")
}

func TestServeCreateSuperAdmin_BadMobile(t *testing.T) {
	h, _ := newHandler(t, true)

	body := createBody("root.admin")
	body["mobile"] = "12345"
	req := testutil.NewJSONRequest(t, "POST", "/admin/create-super-admin", body)
	rec := testutil.NewRecorder()

	h.ServeCreateSuperAdmin(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Invalid mobile number")
}

func TestServeCreateAdmin(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-admin", createBody("new.admin"), testutil.SuperAdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateAdmin(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "admin"})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if n != 1 {
		t.Errorf("admins in db: got %d, want 1", n)
	}
}

func TestServeCreateWarden_HostelRequired(t *testing.T) {
	h, _ := newHandler(t, false)

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-warden", createBody("new.warden"), testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateWarden(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeCreateWarden_HostelMustExist(t *testing.T) {
	h, _ := newHandler(t, false)

	body := createBody("new.warden")
	body["hostelId"] = primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-warden", body, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateWarden(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Hostel not found")
}

func TestServeCreateWarden(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := testutil.NewFixtures(t, db).CreateHostel(ctx, "Aryabhatta", "ABH")

	body := createBody("new.warden")
	body["hostelId"] = hostel.ID.Hex()
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-warden", body, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateWarden(rec, req)
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Warden created successfully")
}

func TestServeCreateStudent_RoomMustBelongToHostel(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostelA := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	hostelB := f.CreateHostel(ctx, "Bhaskara", "BKH")
	roomB := f.CreateRoom(ctx, hostelB.ID, "101", 2)

	body := createBody("2022UGCS001")
	body["hostelId"] = hostelA.ID.Hex()
	body["roomId"] = roomB.ID.Hex()
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-student", body, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateStudent(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Room does not belong to the given hostel")
}

func TestServeCreateStudent_FullRoom(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	room := f.CreateRoom(ctx, hostel.ID, "101", 1)
	f.CreateStudent(ctx, "First In", "2022UGCS001", hostel.ID, room.ID)

	body := createBody("2022UGCS002")
	body["hostelId"] = hostel.ID.Hex()
	body["roomId"] = room.ID.Hex()
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-student", body, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateStudent(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "Room is already at full capacity")

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"room_id": room.ID})
	if err != nil {
		t.Fatalf("count occupants: %v", err)
	}
	if n != 1 {
		t.Errorf("occupants after refused enrollment: got %d, want 1", n)
	}
}

func TestServeCreateStudent_ConcurrentEnrollmentHoldsCapacity(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	room := f.CreateRoom(ctx, hostel.ID, "101", 1)

	// All four requests race for the single slot. Each loser is either
	// refused by the pre-check or rolled back by the post-insert
	// re-count; the room must never end up over capacity, and every 201
	// must correspond to a student still in the room.
	const attempts = 4
	reqs := make([]*http.Request, attempts)
	for i := range reqs {
		body := createBody(fmt.Sprintf("2022UGCS%03d", i+1))
		body["hostelId"] = hostel.ID.Hex()
		body["roomId"] = room.ID.Hex()
		reqs[i] = testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-student", body, testutil.AdminPrincipal())
	}

	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := testutil.NewRecorder()
			h.ServeCreateStudent(rec, reqs[i])
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"room_id": room.ID})
	if err != nil {
		t.Fatalf("count occupants: %v", err)
	}
	if n > 1 {
		t.Errorf("room over capacity: %d occupants for capacity 1", n)
	}
	if int(n) != created {
		t.Errorf("occupants (%d) and 201 responses (%d) disagree", n, created)
	}
}

func TestServeCreateStudent(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	room := f.CreateRoom(ctx, hostel.ID, "101", 2)

	body := createBody("2022ugcs001")
	body["hostelId"] = hostel.ID.Hex()
	body["roomId"] = room.ID.Hex()
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-student", body, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateStudent(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	// Username is canonicalized to uppercase on the way in.
	rec.AssertContains(t, "2022UGCS001")
}

func TestServeCreateStudent_DuplicateUsername(t *testing.T) {
	h, db := newHandler(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	room := f.CreateRoom(ctx, hostel.ID, "101", 4)
	f.CreateStudent(ctx, "First In", "2022UGCS001", hostel.ID, room.ID)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	body := createBody("2022UGCS001")
	body["hostelId"] = hostel.ID.Hex()
	body["roomId"] = room.ID.Hex()
	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/admin/create-student", body, testutil.AdminPrincipal())
	rec := testutil.NewRecorder()

	h.ServeCreateStudent(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "A user with this username already exists")
}
