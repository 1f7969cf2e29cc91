// internal/app/features/staff/routes.go
package staff

import (
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for staff endpoints, mounted under /staff.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.ServeLogin)
	r.Post("/refresh-token", h.ServeRefreshToken)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireStaff)

		r.Post("/logout", h.ServeLogout)
		r.Get("/tasks", h.ServeTasks)
		r.Patch("/tasks/{complaintID}/settle", h.ServeSettle)
	})

	return r
}
