// internal/app/features/wardens/handler.go
package wardens

import (
	"context"
	"net/http"

	userstore "github.com/am1456/hostelhub/internal/app/store/users"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/paging"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Handler serves the warden's view of their hostel.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler creates a wardens handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeStudents handles GET /warden/students: the students of the
// warden's own hostel with room numbers, sorted by room, searchable and
// paged.
func (h *Handler) ServeStudents(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok || principal.HostelID == nil {
		apires.Fail(w, http.StatusForbidden, "Warden is not assigned to a hostel")
		return
	}

	page := paging.Parse(r)
	search := query.Get(r, "search")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	students, total, err := h.Users.StudentsByHostel(ctx, *principal.HostelID, search, page)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, map[string]any{
		"students":   students,
		"pagination": page.Totals(total),
	}, "Students fetched successfully")
}
