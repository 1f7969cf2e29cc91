// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	hostelstore "github.com/am1456/hostelhub/internal/app/store/hostels"
	profilestore "github.com/am1456/hostelhub/internal/app/store/profiles"
	roomstore "github.com/am1456/hostelhub/internal/app/store/rooms"
	userstore "github.com/am1456/hostelhub/internal/app/store/users"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/authutil"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves account provisioning and the user directory.
type Handler struct {
	Users    *userstore.Store
	Hostels  *hostelstore.Store
	Rooms    *roomstore.Store
	Profiles *profilestore.Store

	// AllowSuperAdminCreation gates the bootstrap endpoint. Off in
	// normal operation.
	AllowSuperAdminCreation bool

	Log *zap.Logger
}

// NewHandler creates an admin handler.
func NewHandler(users *userstore.Store, hostels *hostelstore.Store, rooms *roomstore.Store, profiles *profilestore.Store, allowSuperAdmin bool, logger *zap.Logger) *Handler {
	return &Handler{
		Users:                   users,
		Hostels:                 hostels,
		Rooms:                   rooms,
		Profiles:                profiles,
		AllowSuperAdminCreation: allowSuperAdmin,
		Log:                     logger,
	}
}

// createUserRequest is the JSON body shared by the account creation
// endpoints. Hostel and room are required or forbidden depending on the
// role being created.
type createUserRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	HostelID string `json:"hostelId"`
	RoomID   string `json:"roomId"`
}

func (req *createUserRequest) missingCore() bool {
	return strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		req.Password == "" ||
		strings.TrimSpace(req.Mobile) == ""
}

// ServeCreateSuperAdmin handles POST /admin/create-super-admin. This is
// the unauthenticated bootstrap path: it only works while the deployment
// flag is on, and only while no super admin exists.
func (h *Handler) ServeCreateSuperAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.AllowSuperAdminCreation {
		apires.Fail(w, http.StatusForbidden, "Super admin creation is disabled")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.missingCore() {
		apires.Fail(w, http.StatusBadRequest, "fullName, username, email, password, and mobile are required")
		return
	}
	if !authutil.ValidMobile(req.Mobile) {
		apires.Fail(w, http.StatusBadRequest, "Invalid mobile number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Users.CountByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if existing > 0 {
		apires.Fail(w, http.StatusForbidden, "A super admin already exists")
		return
	}

	created, err := h.createUser(ctx, req, models.RoleSuperAdmin, nil, nil)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	h.Log.Info("super admin created", zap.String("user_id", created.ID.Hex()))
	apires.OK(w, http.StatusCreated, created, "Super admin created successfully")
}

// ServeCreateAdmin handles POST /admin/create-admin. Super admin only
// (enforced by the route).
func (h *Handler) ServeCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.missingCore() {
		apires.Fail(w, http.StatusBadRequest, "fullName, username, email, password, and mobile are required")
		return
	}
	if !authutil.ValidMobile(req.Mobile) {
		apires.Fail(w, http.StatusBadRequest, "Invalid mobile number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.createUser(ctx, req, models.RoleAdmin, nil, nil)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	h.Log.Info("admin created", zap.String("user_id", created.ID.Hex()))
	apires.OK(w, http.StatusCreated, created, "Admin created successfully")
}

// ServeCreateWarden handles POST /admin/create-warden. Wardens must be
// assigned to an existing hostel.
func (h *Handler) ServeCreateWarden(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.missingCore() || req.HostelID == "" {
		apires.Fail(w, http.StatusBadRequest, "fullName, username, email, password, mobile, and hostelId are required")
		return
	}
	if !authutil.ValidMobile(req.Mobile) {
		apires.Fail(w, http.StatusBadRequest, "Invalid mobile number")
		return
	}

	hostelID, err := primitive.ObjectIDFromHex(req.HostelID)
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Hostels.GetByID(ctx, hostelID); err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Hostel not found")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	created, err := h.createUser(ctx, req, models.RoleWarden, &hostelID, nil)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	h.Log.Info("warden created",
		zap.String("user_id", created.ID.Hex()),
		zap.String("hostel_id", hostelID.Hex()))
	apires.OK(w, http.StatusCreated, created, "Warden created successfully")
}

// ServeCreateStudent handles POST /admin/create-student. Enrollment is
// capacity-aware: the room must belong to the given hostel and have
// space. A concurrent enrollment that overfills the room is rolled back
// after the insert, so the capacity invariant holds without transactions.
func (h *Handler) ServeCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.missingCore() || req.HostelID == "" || req.RoomID == "" {
		apires.Fail(w, http.StatusBadRequest, "fullName, username, email, password, mobile, hostelId, and roomId are required")
		return
	}
	if !authutil.ValidMobile(req.Mobile) {
		apires.Fail(w, http.StatusBadRequest, "Invalid mobile number")
		return
	}

	hostelID, err := primitive.ObjectIDFromHex(req.HostelID)
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
		return
	}
	roomID, err := primitive.ObjectIDFromHex(req.RoomID)
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid roomId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Room not found")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}
	if room.HostelID != hostelID {
		apires.Fail(w, http.StatusBadRequest, "Room does not belong to the given hostel")
		return
	}

	occupants, err := h.Users.CountByRoom(ctx, roomID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if int(occupants) >= room.Capacity {
		apires.Fail(w, http.StatusConflict, "Room is already at full capacity")
		return
	}

	created, err := h.createUser(ctx, req, models.RoleStudent, &hostelID, &roomID)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	// Two concurrent enrollments can both pass the pre-check. Re-count
	// after the insert and roll back the loser.
	occupants, err = h.Users.CountByRoom(ctx, roomID)
	if err != nil {
		h.Log.Error("create-student: capacity re-count failed",
			zap.Error(err),
			zap.String("user_id", created.ID.Hex()),
			zap.String("room_id", roomID.Hex()))
	} else if int(occupants) > room.Capacity {
		if _, delErr := h.Users.Delete(ctx, created.ID); delErr != nil {
			h.Log.Error("create-student: capacity rollback failed",
				zap.Error(delErr),
				zap.String("user_id", created.ID.Hex()))
		}
		apires.Fail(w, http.StatusConflict, "Room is already at full capacity")
		return
	}

	h.Log.Info("student enrolled",
		zap.String("user_id", created.ID.Hex()),
		zap.String("room_id", roomID.Hex()))
	apires.OK(w, http.StatusCreated, created, "Student created successfully")
}

func (h *Handler) createUser(ctx context.Context, req createUserRequest, role string, hostelID, roomID *primitive.ObjectID) (models.User, error) {
	hash, err := authutil.HashSecret(req.Password)
	if err != nil {
		return models.User{}, err
	}
	return h.Users.Create(ctx, models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: hash,
		Mobile:   req.Mobile,
		Role:     role,
		HostelID: hostelID,
		RoomID:   roomID,
	})
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	if err == userstore.ErrDuplicateUsername {
		err = apires.Conflict("A user with this username already exists")
	}
	apires.Error(w, h.Log, err)
}
