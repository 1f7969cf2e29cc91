// internal/app/features/admin/routes.go
package admin

import (
	users "github.com/am1456/hostelhub/internal/app/features/users"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for admin endpoints, mounted under /admin.
// create-super-admin is deliberately outside the auth middleware: it is
// the bootstrap path, gated by the deployment flag and the
// one-super-admin invariant instead.
func Routes(h *Handler, account *users.Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Post("/create-super-admin", h.ServeCreateSuperAdmin)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireUser)

		// Wardens may read a single user in their own hostel; the
		// handler enforces the hostel scope.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin, models.RoleWarden))
			r.Get("/users/{userID}", h.ServeGetUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

			r.Post("/create-warden", h.ServeCreateWarden)
			r.Post("/create-student", h.ServeCreateStudent)

			r.Get("/users", h.ServeListUsers)
			r.Patch("/users/{userID}", h.ServePatchUser)
			r.Delete("/delete-user/{userID}", h.ServeDeleteUser)

			r.Post("/logout", account.ServeLogout)
			r.Post("/change-password", account.ServeChangePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleSuperAdmin))
			r.Post("/create-admin", h.ServeCreateAdmin)
		})
	})

	return r
}
