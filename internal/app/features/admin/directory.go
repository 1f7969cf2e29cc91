// internal/app/features/admin/directory.go
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/am1456/hostelhub/internal/app/store/users"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/paging"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeListUsers handles GET /admin/users. Filters: role, hostelId,
// search (case-insensitive over username and full name), page, limit.
func (h *Handler) ServeListUsers(w http.ResponseWriter, r *http.Request) {
	filter := userstore.ListFilter{
		Role:   query.Get(r, "role"),
		Search: query.Get(r, "search"),
	}
	if hostelHex := query.Get(r, "hostelId"); hostelHex != "" {
		hostelID, err := primitive.ObjectIDFromHex(hostelHex)
		if err != nil {
			apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
			return
		}
		filter.HostelID = &hostelID
	}
	if filter.Role != "" && !models.IsValidRole(filter.Role) {
		apires.Fail(w, http.StatusBadRequest, "Invalid role filter")
		return
	}

	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, total, err := h.Users.List(ctx, filter, page)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": page.Totals(total),
	}, "Users fetched successfully")
}

// ServeGetUser handles GET /admin/users/{userID}. Admins see anyone;
// wardens only users placed in their own hostel.
func (h *Handler) ServeGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	detail, err := h.Users.GetDetail(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	if principal, ok := auth.CurrentPrincipal(r); ok && !models.IsAdminRole(principal.Role) {
		inScope := principal.HostelID != nil &&
			detail.Hostel != nil &&
			detail.Hostel.ID == *principal.HostelID
		if !inScope {
			apires.Fail(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	apires.OK(w, http.StatusOK, detail, "User fetched successfully")
}

// patchUserRequest carries the allow-listed fields for partial update.
// Absent fields are left unchanged.
type patchUserRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Mobile   *string `json:"mobile"`
	HostelID *string `json:"hostelId"`
	RoomID   *string `json:"roomId"`
}

// ServePatchUser handles PATCH /admin/users/{userID}.
func (h *Handler) ServePatchUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	var req patchUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := userstore.Update{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
		Mobile:   req.Mobile,
	}
	if req.HostelID != nil {
		hostelID, err := primitive.ObjectIDFromHex(*req.HostelID)
		if err != nil {
			apires.Fail(w, http.StatusBadRequest, "Invalid hostelId")
			return
		}
		upd.HostelID = &hostelID
	}
	if req.RoomID != nil {
		roomID, err := primitive.ObjectIDFromHex(*req.RoomID)
		if err != nil {
			apires.Fail(w, http.StatusBadRequest, "Invalid roomId")
			return
		}
		upd.RoomID = &roomID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Patch(ctx, userID, upd); err != nil {
		switch err {
		case mongo.ErrNoDocuments:
			apires.Fail(w, http.StatusNotFound, "User not found")
		case userstore.ErrDuplicateUsername:
			apires.Fail(w, http.StatusConflict, "A user with this username already exists")
		default:
			apires.Error(w, h.Log, err)
		}
		return
	}

	detail, err := h.Users.GetDetail(ctx, userID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, detail, "User updated successfully")
}

// ServeDeleteUser handles DELETE /admin/delete-user/{userID}. Deleting a
// student also removes their profile; their tokens stop resolving on the
// next request since principals are loaded fresh.
func (h *Handler) ServeDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Users.Delete(ctx, userID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if deleted == 0 {
		apires.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	if _, err := h.Profiles.DeleteByUser(ctx, userID); err != nil {
		h.Log.Warn("delete-user: profile cleanup failed",
			zap.Error(err),
			zap.String("user_id", userID.Hex()))
	}

	h.Log.Info("user deleted", zap.String("user_id", userID.Hex()))
	apires.OK(w, http.StatusOK, nil, "User deleted successfully")
}
