package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/am1456/hostelhub/internal/app/system/normalize"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// HashPassword hashes a plaintext secret at a low cost for test speed.
func HashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	return string(hash)
}

// CreateHostel creates a test hostel with the given name and code.
func (f *Fixtures) CreateHostel(ctx context.Context, name, code string) models.Hostel {
	f.t.Helper()

	now := time.Now().UTC()
	hostel := models.Hostel{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("hostels").InsertOne(ctx, hostel)
	if err != nil {
		f.t.Fatalf("failed to create test hostel: %v", err)
	}

	return hostel
}

// CreateRoom creates a test room in the given hostel.
func (f *Fixtures) CreateRoom(ctx context.Context, hostelID primitive.ObjectID, number string, capacity int) models.Room {
	f.t.Helper()

	now := time.Now().UTC()
	room := models.Room{
		ID:        primitive.NewObjectID(),
		Number:    number,
		HostelID:  hostelID,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("rooms").InsertOne(ctx, room)
	if err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}

	return room
}

// CreateUser creates a test user with the given role. For students, hostelID
// and roomID should be provided; pass nil for the other roles.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, username, role string, hostelID, roomID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Username:   normalize.Username(username),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      strings.ToLower(username) + "@test.example",
		Password:   HashPassword(f.t, "test-password"),
		Mobile:     "9876543210",
		Role:       role,
		HostelID:   hostelID,
		RoomID:     roomID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, username, models.RoleAdmin, nil, nil)
}

// CreateWarden creates a test warden assigned to the given hostel.
func (f *Fixtures) CreateWarden(ctx context.Context, fullName, username string, hostelID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, username, models.RoleWarden, &hostelID, nil)
}

// CreateStudent creates a test student enrolled in the given hostel and room.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, username string, hostelID, roomID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, username, models.RoleStudent, &hostelID, &roomID)
}

// CreateStaff creates a test staff member with the given skill roles.
func (f *Fixtures) CreateStaff(ctx context.Context, fullName, phone string, hostelID primitive.ObjectID, roles ...string) models.Staff {
	f.t.Helper()

	now := time.Now().UTC()
	staff := models.Staff{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Phone:     phone,
		PIN:       HashPassword(f.t, "1234"),
		Roles:     roles,
		HostelID:  hostelID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("staff").InsertOne(ctx, staff)
	if err != nil {
		f.t.Fatalf("failed to create test staff: %v", err)
	}

	return staff
}

// CreateComplaint creates a test complaint filed by the given student.
func (f *Fixtures) CreateComplaint(ctx context.Context, student models.User, title, assignedRole string) models.Complaint {
	f.t.Helper()

	if student.HostelID == nil || student.RoomID == nil {
		f.t.Fatalf("complaint fixture requires a student with hostel and room")
	}

	now := time.Now().UTC()
	complaint := models.Complaint{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Description:     "Test complaint description",
		StudentID:       student.ID,
		HostelID:        *student.HostelID,
		RoomID:          *student.RoomID,
		Mobile:          student.Mobile,
		AssignedRole:    assignedRole,
		StatusByStudent: models.StudentStatusPending,
		StatusByStaff:   models.StaffStatusUnsettled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := f.db.Collection("complaints").InsertOne(ctx, complaint)
	if err != nil {
		f.t.Fatalf("failed to create test complaint: %v", err)
	}

	return complaint
}

// CreateStudentProfile creates a test profile for the given student.
func (f *Fixtures) CreateStudentProfile(ctx context.Context, userID primitive.ObjectID) models.StudentProfile {
	f.t.Helper()

	now := time.Now().UTC()
	profile := models.StudentProfile{
		ID:                    primitive.NewObjectID(),
		UserID:                userID,
		Gender:                "male",
		DateOfBirth:           time.Date(2004, 1, 15, 0, 0, 0, 0, time.UTC),
		BloodGroup:            "O+",
		AdmissionYear:         2022,
		Course:                "B.Tech",
		Branch:                "Computer Science",
		FatherName:            "Test Father",
		FatherPhone:           "9123456780",
		MotherName:            "Test Mother",
		AddressLine1:          "12 Test Lane",
		City:                  "Test City",
		State:                 "TS",
		Pincode:               "500001",
		EmergencyContactName:  "Test Father",
		EmergencyContactPhone: "9123456780",
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	_, err := f.db.Collection("student_profiles").InsertOne(ctx, profile)
	if err != nil {
		f.t.Fatalf("failed to create test student profile: %v", err)
	}

	return profile
}
