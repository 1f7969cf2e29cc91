// internal/app/features/students/profile.go
package students

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/enrollment"
	"github.com/am1456/hostelhub/internal/app/system/htmlsanitize"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/am1456/hostelhub/internal/domain/models"
	"go.uber.org/zap"
)

// profileRequest is the JSON body for the profile upsert. Academic
// fields are absent on purpose: they are decoded from the student's
// enrollment ID, not supplied by the student.
type profileRequest struct {
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	BloodGroup  string `json:"bloodGroup"`
	Nationality string `json:"nationality"`
	Category    string `json:"category"`

	FatherName            string `json:"fatherName"`
	FatherPhone           string `json:"fatherPhone"`
	MotherName            string `json:"motherName"`
	MotherPhone           string `json:"motherPhone"`
	LocalGuardianName     string `json:"localGuardianName"`
	LocalGuardianPhone    string `json:"localGuardianPhone"`
	LocalGuardianRelation string `json:"localGuardianRelation"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`

	HasChronicDisease     bool   `json:"hasChronicDisease"`
	ChronicDiseaseDetails string `json:"chronicDiseaseDetails"`
	EmergencyContactName  string `json:"emergencyContactName"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`
}

// ServeUpsertProfile handles POST /student/profile. A second submission
// replaces the stored profile.
func (h *Handler) ServeUpsertProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Gender == "" || req.DateOfBirth == "" || req.BloodGroup == "" ||
		req.FatherName == "" || req.FatherPhone == "" || req.MotherName == "" ||
		req.AddressLine1 == "" || req.City == "" || req.State == "" || req.Pincode == "" ||
		req.EmergencyContactName == "" || req.EmergencyContactPhone == "" {
		apires.Fail(w, http.StatusBadRequest, "All personal, family, address, and emergency fields are required")
		return
	}
	if !models.IsValidBloodGroup(req.BloodGroup) {
		apires.Fail(w, http.StatusBadRequest, "Invalid blood group")
		return
	}
	if req.HasChronicDisease && req.ChronicDiseaseDetails == "" {
		apires.Fail(w, http.StatusBadRequest, "chronicDiseaseDetails is required when hasChronicDisease is set")
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
		return
	}

	academic, err := enrollment.Decode(principal.Username)
	if err != nil {
		apires.Fail(w, http.StatusBadRequest, "Username is not a valid enrollment ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.Profiles.Upsert(ctx, models.StudentProfile{
		UserID:        principal.ID,
		Gender:        req.Gender,
		DateOfBirth:   dob,
		BloodGroup:    req.BloodGroup,
		Nationality:   htmlsanitize.Text(req.Nationality),
		Category:      htmlsanitize.Text(req.Category),
		AdmissionYear: academic.AdmissionYear,
		Course:        academic.Course,
		Branch:        academic.Branch,

		FatherName:            htmlsanitize.Text(req.FatherName),
		FatherPhone:           req.FatherPhone,
		MotherName:            htmlsanitize.Text(req.MotherName),
		MotherPhone:           req.MotherPhone,
		LocalGuardianName:     htmlsanitize.Text(req.LocalGuardianName),
		LocalGuardianPhone:    req.LocalGuardianPhone,
		LocalGuardianRelation: htmlsanitize.Text(req.LocalGuardianRelation),

		AddressLine1: htmlsanitize.Text(req.AddressLine1),
		AddressLine2: htmlsanitize.Text(req.AddressLine2),
		City:         htmlsanitize.Text(req.City),
		State:        htmlsanitize.Text(req.State),
		Pincode:      req.Pincode,

		HasChronicDisease:     req.HasChronicDisease,
		ChronicDiseaseDetails: htmlsanitize.Text(req.ChronicDiseaseDetails),
		EmergencyContactName:  htmlsanitize.Text(req.EmergencyContactName),
		EmergencyContactPhone: req.EmergencyContactPhone,
	})
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	h.Log.Info("student profile saved", zap.String("user_id", principal.ID.Hex()))
	apires.OK(w, http.StatusOK, saved, "Profile saved successfully")
}

// ServeProfileStatus handles GET /student/profile-status.
func (h *Handler) ServeProfileStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	complete, err := h.Profiles.Exists(ctx, principal.ID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, map[string]bool{"isComplete": complete}, "Profile status fetched successfully")
}
