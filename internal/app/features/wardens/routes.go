// internal/app/features/wardens/routes.go
package wardens

import (
	users "github.com/am1456/hostelhub/internal/app/features/users"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for warden endpoints, mounted under /warden.
func Routes(h *Handler, account *users.Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequireUser)
	r.Use(auth.RequireRole(models.RoleWarden))

	r.Get("/students", h.ServeStudents)

	r.Post("/logout", account.ServeLogout)
	r.Post("/change-password", account.ServeChangePassword)

	return r
}
