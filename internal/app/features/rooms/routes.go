// internal/app/features/rooms/routes.go
package rooms

import (
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for room endpoints, mounted under /room.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequireUser)

	r.Get("/get-rooms/{hostelID}", h.ServeGetRooms)
	r.Get("/last-room/{hostelID}", h.ServeLastRoom)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
		r.Post("/add-room", h.ServeAddRoom)
	})

	return r
}
