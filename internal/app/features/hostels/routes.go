// internal/app/features/hostels/routes.go
package hostels

import (
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for hostel endpoints, mounted under /hostel.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	// Landing-page stat, no auth
	r.Get("/hostel-count", h.ServeHostelCount)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Get("/get-all-hostels", h.ServeGetAllHostels)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
			r.Post("/add-hostel", h.ServeAddHostel)
		})
	})

	return r
}
