// internal/app/features/students/complaints.go
package students

import (
	"context"
	"encoding/json"
	"net/http"

	complaintstore "github.com/am1456/hostelhub/internal/app/store/complaints"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/htmlsanitize"
	"github.com/am1456/hostelhub/internal/app/system/normalize"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// createComplaintRequest is the JSON body for filing a complaint.
type createComplaintRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedRole string `json:"assignedRole"`
}

// ServeCreateComplaint handles POST /student/complaints. The student's
// hostel, room, and mobile are snapshotted onto the complaint at
// creation and never re-synced.
func (h *Handler) ServeCreateComplaint(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req createComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := htmlsanitize.Text(req.Title)
	description := htmlsanitize.Text(req.Description)
	assignedRole := normalize.Skill(req.AssignedRole)

	if title == "" || description == "" || assignedRole == "" {
		apires.Fail(w, http.StatusBadRequest, "title, description, and assignedRole are required")
		return
	}
	if !models.IsValidSkill(assignedRole) {
		apires.Fail(w, http.StatusBadRequest, "assignedRole must be a valid skill")
		return
	}
	if principal.HostelID == nil || principal.RoomID == nil {
		apires.Fail(w, http.StatusBadRequest, "Student has no hostel or room assignment")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Complaints.Create(ctx, models.Complaint{
		Title:        title,
		Description:  description,
		StudentID:    principal.ID,
		HostelID:     *principal.HostelID,
		RoomID:       *principal.RoomID,
		Mobile:       principal.Mobile,
		AssignedRole: assignedRole,
	})
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	h.Log.Info("complaint filed",
		zap.String("complaint_id", created.ID.Hex()),
		zap.String("assigned_role", assignedRole))
	apires.OK(w, http.StatusCreated, created, "Complaint filed successfully")
}

// ServeListComplaints handles GET /student/complaints. Optional filters:
// status (student axis), role.
func (h *Handler) ServeListComplaints(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	filter := complaintstore.StudentFilter{
		StatusByStudent: query.Get(r, "status"),
		AssignedRole:    normalize.Skill(query.Get(r, "role")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Complaints.ListByStudent(ctx, principal.ID, filter)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, list, "Complaints fetched successfully")
}

// ServeResolveComplaint handles PATCH /student/complaints/{complaintID}/resolve.
// Ownership is part of the update filter: resolving someone else's
// complaint and resolving a nonexistent one are both 404.
func (h *Handler) ServeResolveComplaint(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	complaintID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid complaintId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	resolved, err := h.Complaints.Resolve(ctx, complaintID, principal.ID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "Complaint not found")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, resolved, "Complaint resolved successfully")
}

// ServeDeleteComplaint handles DELETE /student/complaints/{complaintID}.
// Only the owner may delete, and only while staff have not settled it;
// a settled complaint is part of the staff's work record.
func (h *Handler) ServeDeleteComplaint(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	complaintID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid complaintId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.checkDeletable(ctx, complaintID, principal.ID); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	deleted, err := h.Complaints.Delete(ctx, complaintID, principal.ID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if deleted == 0 {
		apires.Fail(w, http.StatusNotFound, "Complaint not found")
		return
	}

	apires.OK(w, http.StatusOK, nil, "Complaint deleted successfully")
}

// checkDeletable verifies the complaint exists, belongs to the student,
// and has not been settled by staff yet.
func (h *Handler) checkDeletable(ctx context.Context, complaintID, studentID primitive.ObjectID) error {
	complaint, err := h.Complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apires.NotFound("Complaint not found")
		}
		return err
	}
	if complaint.StudentID != studentID {
		return apires.Forbidden("Forbidden")
	}
	if complaint.StatusByStaff != models.StaffStatusUnsettled {
		return apires.BadRequest("A settled complaint cannot be deleted")
	}
	return nil
}
