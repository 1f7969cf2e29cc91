// internal/app/system/auth/middleware.go
package auth

import (
	"context"
	"net/http"

	"github.com/am1456/hostelhub/internal/app/system/apires"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Principal is the authenticated caller injected into the request
// context. One struct covers both credential spaces: Role is set for
// users, Skills for staff.
type Principal struct {
	ID       primitive.ObjectID
	Name     string
	Username string
	Mobile   string
	Space    string

	Role     string   // user space: student | warden | admin | superAdmin
	Skills   []string // staff space: skill tags
	HostelID *primitive.ObjectID
	RoomID   *primitive.ObjectID
}

// PrincipalLoader resolves a verified token subject to a live principal.
// Loading fresh on every request means deletions and role changes take
// effect immediately rather than at token expiry.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, id primitive.ObjectID) (*Principal, error)
}

type ctxKey string

const principalKey ctxKey = "principal"

// CurrentPrincipal returns the authenticated principal, if any.
func CurrentPrincipal(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(principalKey).(*Principal)
	return p, ok
}

// WithTestPrincipal injects a principal directly, bypassing token
// verification. For handler tests only.
func WithTestPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

// Middleware verifies access tokens and loads principals for protected
// routes.
type Middleware struct {
	Tokens *TokenService
	Users  PrincipalLoader
	Staff  PrincipalLoader
	Log    *zap.Logger
}

// RequireUser admits only requests bearing a valid user-space access
// token that resolves to an existing user.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return m.require(SpaceUser, m.Users, next)
}

// RequireStaff admits only requests bearing a valid staff-space access
// token that resolves to an existing staff member.
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return m.require(SpaceStaff, m.Staff, next)
}

func (m *Middleware) require(space string, loader PrincipalLoader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := AccessTokenFromRequest(r)
		if token == "" {
			apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
			return
		}

		claims, err := m.Tokens.VerifyAccess(token, space)
		if err != nil {
			apires.Fail(w, http.StatusUnauthorized, "Invalid access token")
			return
		}
		id, err := claims.PrincipalID()
		if err != nil {
			apires.Fail(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		p, err := loader.LoadPrincipal(r.Context(), id)
		if err != nil || p == nil {
			// Token subject no longer exists (deleted account) or the
			// lookup failed; either way the caller only learns 401.
			apires.Fail(w, http.StatusUnauthorized, "Invalid access token")
			return
		}
		p.Space = space

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

// RequireRole gates a route group to users whose role is in the allowed
// set. Must sit behind RequireUser.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := CurrentPrincipal(r)
			if !ok {
				apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}
			if _, has := set[p.Role]; !has {
				apires.Fail(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
