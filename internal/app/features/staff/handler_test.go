package staff_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	stafffeature "github.com/am1456/hostelhub/internal/app/features/staff"
	complaintstore "github.com/am1456/hostelhub/internal/app/store/complaints"
	staffstore "github.com/am1456/hostelhub/internal/app/store/staff"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/ratelimit"
	"github.com/am1456/hostelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*stafffeature.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	limiter := ratelimit.NewLoginLimiter(100, time.Minute, 100, time.Minute)

	return stafffeature.NewHandler(staffstore.New(db), complaintstore.New(db), tokens, limiter, false, zap.NewNop()), db
}

func TestServeLogin_Success(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	member := f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostel.ID, "plumber")

	req := testutil.NewJSONRequest(t, "POST", "/staff/login", map[string]any{
		"phone": "98765-11111",
		"pin":   "1234",
	})
	rec := testutil.NewRecorder()

	h.ServeLogin(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Logged in successfully")

	var stored struct {
		RefreshToken string `bson:"refresh_token"`
	}
	if err := db.Collection("staff").FindOne(ctx, bson.M{"_id": member.ID}).Decode(&stored); err != nil {
		t.Fatalf("load staff: %v", err)
	}
	if stored.RefreshToken == "" {
		t.Error("refresh token was not persisted")
	}
}

func TestServeLogin_BadPIN(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostel.ID, "plumber")

	req := testutil.NewJSONRequest(t, "POST", "/staff/login", map[string]any{
		"phone": "9876511111",
		"pin":   "9999",
	})
	rec := testutil.NewRecorder()

	h.ServeLogin(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "Invalid staff credentials")
}

func TestServeLogin_MalformedPIN(t *testing.T) {
	h, _ := newHandler(t)

	for _, pin := range []string{"abcd", "123", "123456"} {
		req := testutil.NewJSONRequest(t, "POST", "/staff/login", map[string]any{
			"phone": "9876511111",
			"pin":   pin,
		})
		rec := testutil.NewRecorder()

		h.ServeLogin(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, "PIN must be 4 digits")
	}
}

func TestServeLogin_UnknownPhone(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/staff/login", map[string]any{
		"phone": "9876599999",
		"pin":   "1234",
	})
	rec := testutil.NewRecorder()

	h.ServeLogin(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Staff member does not exist")
}

func TestServeRefreshToken_RotatesInStaffSpace(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostel.ID, "plumber")

	login := testutil.NewJSONRequest(t, "POST", "/staff/login", map[string]any{
		"phone": "9876511111",
		"pin":   "1234",
	})
	loginRec := testutil.NewRecorder()
	h.ServeLogin(loginRec, login)
	loginRec.AssertStatus(t, http.StatusOK)

	env := loginRec.Envelope(t)
	refresh := env["data"].(map[string]any)["refreshToken"].(string)

	req := testutil.NewJSONRequest(t, "POST", "/staff/refresh-token", map[string]any{
		"refreshToken": refresh,
	})
	rec := testutil.NewRecorder()

	h.ServeRefreshToken(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	// The previous token is single-use.
	req = testutil.NewJSONRequest(t, "POST", "/staff/refresh-token", map[string]any{
		"refreshToken": refresh,
	})
	rec = testutil.NewRecorder()

	h.ServeRefreshToken(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "Refresh token is expired or used")
}

func TestServeTasks_ScopedToHostelAndSkills(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostelA := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	hostelB := f.CreateHostel(ctx, "Bhaskara", "BKH")
	roomA := f.CreateRoom(ctx, hostelA.ID, "101", 2)
	roomB := f.CreateRoom(ctx, hostelB.ID, "101", 2)
	studentA := f.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostelA.ID, roomA.ID)
	studentB := f.CreateStudent(ctx, "Ravi Menon", "2022UGEC001", hostelB.ID, roomB.ID)

	match := f.CreateComplaint(ctx, studentA, "Leaky tap", "plumber")
	f.CreateComplaint(ctx, studentA, "Broken fan", "electrician")
	f.CreateComplaint(ctx, studentB, "Clogged drain", "plumber")

	member := f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostelA.ID, "plumber")

	req := testutil.NewAuthenticatedRequest("GET", "/staff/tasks", testutil.StaffPrincipalFor(member))
	rec := testutil.NewRecorder()

	h.ServeTasks(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, match.Title)
	rec.AssertContains(t, "Asha Rao") // joined student name
	body := rec.Body.String()
	if strings.Contains(body, "Broken fan") {
		t.Error("task outside the staff member's skills leaked into the queue")
	}
	if strings.Contains(body, "Clogged drain") {
		t.Error("task from another hostel leaked into the queue")
	}
}

func TestServeSettle_OutOfScopeIsNotFound(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostelA := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	hostelB := f.CreateHostel(ctx, "Bhaskara", "BKH")
	roomB := f.CreateRoom(ctx, hostelB.ID, "101", 2)
	studentB := f.CreateStudent(ctx, "Ravi Menon", "2022UGEC001", hostelB.ID, roomB.ID)
	complaint := f.CreateComplaint(ctx, studentB, "Clogged drain", "plumber")

	// Right skill, wrong hostel: indistinguishable from nonexistent.
	member := f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostelA.ID, "plumber")

	req := testutil.NewAuthenticatedRequest("PATCH", "/staff/tasks/"+complaint.ID.Hex()+"/settle", testutil.StaffPrincipalFor(member))
	req = testutil.WithChiURLParam(req, "complaintID", complaint.ID.Hex())
	rec := testutil.NewRecorder()

	h.ServeSettle(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Complaint not found")
}

func TestServeSettle(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	room := f.CreateRoom(ctx, hostel.ID, "101", 2)
	student := f.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)
	complaint := f.CreateComplaint(ctx, student, "Leaky tap", "plumber")
	member := f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostel.ID, "plumber")

	req := testutil.NewAuthenticatedRequest("PATCH", "/staff/tasks/"+complaint.ID.Hex()+"/settle", testutil.StaffPrincipalFor(member))
	req = testutil.WithChiURLParam(req, "complaintID", complaint.ID.Hex())
	rec := testutil.NewRecorder()

	h.ServeSettle(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "SETTLED")

	// The student's own axis is untouched.
	var stored bson.M
	if err := db.Collection("complaints").FindOne(ctx, bson.M{"_id": complaint.ID}).Decode(&stored); err != nil {
		t.Fatalf("load complaint: %v", err)
	}
	if stored["status_by_student"] != "PENDING" {
		t.Errorf("student axis changed by settle: %v", stored["status_by_student"])
	}
}

func TestServeLogout(t *testing.T) {
	h, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	hostel := f.CreateHostel(ctx, "Aryabhatta", "ABH")
	member := f.CreateStaff(ctx, "Suresh Kumar", "9876511111", hostel.ID, "plumber")

	store := staffstore.New(db)
	if err := store.SetRefreshToken(ctx, member.ID, "some-refresh-token"); err != nil {
		t.Fatalf("seed refresh token: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("POST", "/staff/logout", testutil.StaffPrincipalFor(member))
	rec := testutil.NewRecorder()

	h.ServeLogout(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var stored struct {
		RefreshToken string `bson:"refresh_token"`
	}
	if err := db.Collection("staff").FindOne(ctx, bson.M{"_id": member.ID}).Decode(&stored); err != nil {
		t.Fatalf("load staff: %v", err)
	}
	if stored.RefreshToken != "" {
		t.Error("refresh token survived logout")
	}
}
