// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the public user-space auth router, mounted under /user.
// Logout and change-password live on the role routers instead, behind
// the auth middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.ServeLogin)
	r.Post("/refresh-token", h.ServeRefreshToken)
	r.Post("/forgot-password", h.ServeForgotPassword)

	return r
}
