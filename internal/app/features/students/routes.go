// internal/app/features/students/routes.go
package students

import (
	users "github.com/am1456/hostelhub/internal/app/features/users"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for student endpoints, mounted under /student.
func Routes(h *Handler, account *users.Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequireUser)
	r.Use(auth.RequireRole(models.RoleStudent))

	r.Post("/complaints", h.ServeCreateComplaint)
	r.Get("/complaints", h.ServeListComplaints)
	r.Patch("/complaints/{complaintID}/resolve", h.ServeResolveComplaint)
	r.Delete("/complaints/{complaintID}", h.ServeDeleteComplaint)

	r.Post("/profile", h.ServeUpsertProfile)
	r.Get("/profile-status", h.ServeProfileStatus)

	r.Post("/logout", account.ServeLogout)
	r.Post("/change-password", account.ServeChangePassword)

	return r
}
