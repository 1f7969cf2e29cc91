// internal/app/features/staff/handler.go
package staff

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	complaintstore "github.com/am1456/hostelhub/internal/app/store/complaints"
	staffstore "github.com/am1456/hostelhub/internal/app/store/staff"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/authutil"
	"github.com/am1456/hostelhub/internal/app/system/normalize"
	"github.com/am1456/hostelhub/internal/app/system/ratelimit"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the staff credential space: phone+PIN login, token
// refresh, and the maintenance task queue.
type Handler struct {
	Staff         *staffstore.Store
	Complaints    *complaintstore.Store
	Tokens        *auth.TokenService
	LoginLimiter  *ratelimit.LoginLimiter
	SecureCookies bool
	Log           *zap.Logger
}

// NewHandler creates a staff handler.
func NewHandler(staff *staffstore.Store, complaints *complaintstore.Store, tokens *auth.TokenService, limiter *ratelimit.LoginLimiter, secureCookies bool, logger *zap.Logger) *Handler {
	return &Handler{
		Staff:         staff,
		Complaints:    complaints,
		Tokens:        tokens,
		LoginLimiter:  limiter,
		SecureCookies: secureCookies,
		Log:           logger,
	}
}

// loginRequest is the JSON body for the staff login endpoint.
type loginRequest struct {
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
}

// ServeLogin handles POST /staff/login. Staff authenticate with a phone
// number and a 4-digit PIN; tokens are minted in the staff space so a
// user token can never act as a staff token.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Phone) == "" || req.PIN == "" {
		apires.Fail(w, http.StatusBadRequest, "phone and pin are required")
		return
	}
	if !authutil.ValidPIN(req.PIN) {
		apires.Fail(w, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	phone := normalize.Phone(req.Phone)
	if allowed, reason := h.LoginLimiter.Check(r, phone); !allowed {
		apires.Fail(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	member, err := h.Staff.GetByPhone(ctx, phone)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Staff member does not exist")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	if !authutil.VerifySecret(member.PIN, req.PIN) {
		apires.Fail(w, http.StatusUnauthorized, "Invalid staff credentials")
		return
	}

	access, refresh, err := h.Tokens.IssuePair(member.ID, auth.SpaceStaff)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if err := h.Staff.SetRefreshToken(ctx, member.ID, refresh); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	h.LoginLimiter.ResetAccount(phone)
	auth.SetAuthCookies(w, access, refresh, h.SecureCookies)

	h.Log.Info("staff logged in",
		zap.String("staff_id", member.ID.Hex()),
		zap.Strings("roles", member.Roles))

	apires.OK(w, http.StatusOK, map[string]any{
		"staff":        member,
		"accessToken":  access,
		"refreshToken": refresh,
	}, "Logged in successfully")
}

// refreshRequest is the JSON body fallback when the cookie is absent.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ServeRefreshToken handles POST /staff/refresh-token. Same rotation
// contract as the user space: the presented token must verify and match
// the stored one, and matching rotates the pair.
func (h *Handler) ServeRefreshToken(w http.ResponseWriter, r *http.Request) {
	token := auth.RefreshTokenFromRequest(r)
	if token == "" {
		var req refreshRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		token = req.RefreshToken
	}
	if token == "" {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	claims, err := h.Tokens.VerifyRefresh(token, auth.SpaceStaff)
	if err != nil {
		apires.Fail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	id, err := claims.PrincipalID()
	if err != nil {
		apires.Fail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	member, err := h.Staff.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Staff member does not exist")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	if member.RefreshToken == "" || member.RefreshToken != token {
		apires.Fail(w, http.StatusUnauthorized, "Refresh token is expired or used")
		return
	}

	access, refresh, err := h.Tokens.IssuePair(member.ID, auth.SpaceStaff)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if err := h.Staff.SetRefreshToken(ctx, member.ID, refresh); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	auth.SetAuthCookies(w, access, refresh, h.SecureCookies)

	apires.OK(w, http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
	}, "Tokens refreshed successfully")
}

// ServeLogout handles POST /staff/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Staff.SetRefreshToken(ctx, principal.ID, ""); err != nil && err != mongo.ErrNoDocuments {
		apires.Error(w, h.Log, err)
		return
	}

	auth.ClearAuthCookies(w, h.SecureCookies)
	apires.OK(w, http.StatusOK, nil, "Logged out successfully")
}

// ServeTasks handles GET /staff/tasks: open complaints in the staff
// member's hostel whose assigned role matches one of their skills.
func (h *Handler) ServeTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	if principal.HostelID == nil {
		apires.Fail(w, http.StatusForbidden, "Staff member is not assigned to a hostel")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Complaints.TasksForStaff(ctx, *principal.HostelID, principal.Skills)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if tasks == nil {
		tasks = []models.StaffTask{}
	}

	apires.OK(w, http.StatusOK, map[string]any{"tasks": tasks}, "Tasks fetched successfully")
}

// ServeSettle handles PATCH /staff/tasks/{complaintID}/settle. The
// update is a single conditional write scoped to the staff member's
// hostel and skills, so a complaint outside that scope is
// indistinguishable from one that does not exist.
func (h *Handler) ServeSettle(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	if principal.HostelID == nil {
		apires.Fail(w, http.StatusForbidden, "Staff member is not assigned to a hostel")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	settled, err := h.Complaints.Settle(ctx, id, *principal.HostelID, principal.Skills)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Complaint not found")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	h.Log.Info("complaint settled",
		zap.String("complaint_id", settled.ID.Hex()),
		zap.String("staff_id", principal.ID.Hex()))

	apires.OK(w, http.StatusOK, settled, "Complaint settled successfully")
}
