package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminPrincipal returns a principal with the admin role.
func AdminPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:       primitive.NewObjectID(),
		Name:     "Test Admin",
		Username: "admin@test.example",
		Mobile:   "9876543210",
		Space:    auth.SpaceUser,
		Role:     models.RoleAdmin,
	}
}

// SuperAdminPrincipal returns a principal with the superAdmin role.
func SuperAdminPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:       primitive.NewObjectID(),
		Name:     "Test Super Admin",
		Username: "super@test.example",
		Mobile:   "9876543210",
		Space:    auth.SpaceUser,
		Role:     models.RoleSuperAdmin,
	}
}

// WardenPrincipal returns a warden principal assigned to the given hostel.
func WardenPrincipal(hostelID primitive.ObjectID) *auth.Principal {
	return &auth.Principal{
		ID:       primitive.NewObjectID(),
		Name:     "Test Warden",
		Username: "warden@test.example",
		Mobile:   "9876543210",
		Space:    auth.SpaceUser,
		Role:     models.RoleWarden,
		HostelID: &hostelID,
	}
}

// StudentPrincipal returns a student principal enrolled in the given
// hostel and room.
func StudentPrincipal(hostelID, roomID primitive.ObjectID) *auth.Principal {
	return &auth.Principal{
		ID:       primitive.NewObjectID(),
		Name:     "Test Student",
		Username: "2022UGCS001",
		Mobile:   "9876543210",
		Space:    auth.SpaceUser,
		Role:     models.RoleStudent,
		HostelID: &hostelID,
		RoomID:   &roomID,
	}
}

// StudentPrincipalFor returns a principal matching an existing student
// user fixture, so handler tests act as that stored student.
func StudentPrincipalFor(t *testing.T, student models.User) *auth.Principal {
	t.Helper()
	if student.HostelID == nil || student.RoomID == nil {
		t.Fatalf("student principal requires hostel and room")
	}
	return &auth.Principal{
		ID:       student.ID,
		Name:     student.FullName,
		Username: student.Username,
		Mobile:   student.Mobile,
		Space:    auth.SpaceUser,
		Role:     models.RoleStudent,
		HostelID: student.HostelID,
		RoomID:   student.RoomID,
	}
}

// StaffPrincipalFor returns a staff-space principal matching an existing
// staff fixture.
func StaffPrincipalFor(staff models.Staff) *auth.Principal {
	hostelID := staff.HostelID
	return &auth.Principal{
		ID:       staff.ID,
		Name:     staff.FullName,
		Mobile:   staff.Phone,
		Space:    auth.SpaceStaff,
		Skills:   staff.Roles,
		HostelID: &hostelID,
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request with a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with the principal
// already in context, bypassing token verification.
func NewAuthenticatedRequest(method, target string, p *auth.Principal) *http.Request {
	return auth.WithTestPrincipal(httptest.NewRequest(method, target, nil), p)
}

// NewAuthenticatedJSONRequest combines NewJSONRequest and a test principal.
func NewAuthenticatedJSONRequest(t *testing.T, method, target string, body any, p *auth.Principal) *http.Request {
	t.Helper()
	return auth.WithTestPrincipal(NewJSONRequest(t, method, target, body), p)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Envelope decodes the response body as the standard API envelope and
// fails the test on malformed JSON.
func (r *ResponseRecorder) Envelope(t *testing.T) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response envelope: %v (body: %s)", err, r.Body.String())
	}
	return env
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 || findSubstring(s, substr))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
