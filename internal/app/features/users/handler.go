// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	userstore "github.com/am1456/hostelhub/internal/app/store/users"
	"github.com/am1456/hostelhub/internal/app/system/apires"
	"github.com/am1456/hostelhub/internal/app/system/auth"
	"github.com/am1456/hostelhub/internal/app/system/authutil"
	"github.com/am1456/hostelhub/internal/app/system/normalize"
	"github.com/am1456/hostelhub/internal/app/system/ratelimit"
	"github.com/am1456/hostelhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves login, token refresh, and password endpoints for the
// user credential space (students, wardens, admins).
type Handler struct {
	Users         *userstore.Store
	Tokens        *auth.TokenService
	LoginLimiter  *ratelimit.LoginLimiter
	SecureCookies bool
	Log           *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(users *userstore.Store, tokens *auth.TokenService, limiter *ratelimit.LoginLimiter, secureCookies bool, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         users,
		Tokens:        tokens,
		LoginLimiter:  limiter,
		SecureCookies: secureCookies,
		Log:           logger,
	}
}

// loginRequest is the JSON body for the login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeLogin handles POST /user/login. On success both tokens are set as
// cookies and the refresh token is persisted as the single active one
// for this user.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		apires.Fail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if allowed, reason := h.LoginLimiter.Check(r, req.Username); !allowed {
		apires.Fail(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "User does not exist")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	if !authutil.VerifySecret(user.Password, req.Password) {
		apires.Fail(w, http.StatusUnauthorized, "Invalid user credentials")
		return
	}

	access, refresh, err := h.Tokens.IssuePair(user.ID, auth.SpaceUser)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if err := h.Users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	h.LoginLimiter.ResetAccount(req.Username)
	auth.SetAuthCookies(w, access, refresh, h.SecureCookies)

	h.Log.Info("user logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))

	apires.OK(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	}, "Logged in successfully")
}

// refreshRequest is the JSON body fallback when the cookie is absent.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ServeRefreshToken handles POST /user/refresh-token. The presented
// token must verify and match the stored one; matching rotates the pair,
// which invalidates the presented token.
func (h *Handler) ServeRefreshToken(w http.ResponseWriter, r *http.Request) {
	token := auth.RefreshTokenFromRequest(r)
	if token == "" {
		var req refreshRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		token = req.RefreshToken
	}
	if token == "" {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	claims, err := h.Tokens.VerifyRefresh(token, auth.SpaceUser)
	if err != nil {
		apires.Fail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	id, err := claims.PrincipalID()
	if err != nil {
		apires.Fail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "User does not exist")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}

	if user.RefreshToken == "" || user.RefreshToken != token {
		// Valid signature but not the stored token: already rotated or
		// revoked. Treated exactly like an invalid token.
		apires.Fail(w, http.StatusUnauthorized, "Refresh token is expired or used")
		return
	}

	access, refresh, err := h.Tokens.IssuePair(user.ID, auth.SpaceUser)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if err := h.Users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	auth.SetAuthCookies(w, access, refresh, h.SecureCookies)

	apires.OK(w, http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
	}, "Tokens refreshed successfully")
}

// forgotPasswordRequest is the JSON body for the forgot-password endpoint.
type forgotPasswordRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// ServeForgotPassword handles POST /user/forgot-password. Public:
// identity is proven by knowing both the username and the registered
// email. Which of the two was wrong is not disclosed.
func (h *Handler) ServeForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.NewPassword == "" {
		apires.Fail(w, http.StatusBadRequest, "username, email, and newPassword are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apires.Fail(w, http.StatusNotFound, "No user matches this username and email")
			return
		}
		apires.Error(w, h.Log, err)
		return
	}
	if user.Email != normalize.Email(req.Email) {
		apires.Fail(w, http.StatusNotFound, "No user matches this username and email")
		return
	}

	hash, err := authutil.HashSecret(req.NewPassword)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if err := h.Users.SetPassword(ctx, user.ID, hash); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	h.Log.Info("password reset via forgot-password", zap.String("user_id", user.ID.Hex()))

	apires.OK(w, http.StatusOK, nil, "Password reset successfully")
}

// changePasswordRequest is the JSON body for the change-password endpoint.
type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ServeChangePassword is mounted under each role router
// (/admin, /warden, /student). Changing the password clears the stored
// refresh token, ending the session at access-token expiry.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apires.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		apires.Fail(w, http.StatusBadRequest, "oldPassword, newPassword, and confirmPassword are required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		apires.Fail(w, http.StatusBadRequest, "newPassword and confirmPassword do not match")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, principal.ID)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if !authutil.VerifySecret(user.Password, req.OldPassword) {
		apires.Fail(w, http.StatusUnauthorized, "Old password is incorrect")
		return
	}

	hash, err := authutil.HashSecret(req.NewPassword)
	if err != nil {
		apires.Error(w, h.Log, err)
		return
	}
	if err := h.Users.SetPassword(ctx, user.ID, hash); err != nil {
		apires.Error(w, h.Log, err)
		return
	}

	apires.OK(w, http.StatusOK, nil, "Password changed successfully")
}

// ServeLogout is mounted under each role router. Clears the stored
// refresh token and both cookies.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		apires.Fail(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetRefreshToken(ctx, principal.ID, ""); err != nil && err != mongo.ErrNoDocuments {
		apires.Error(w, h.Log, err)
		return
	}

	auth.ClearAuthCookies(w, h.SecureCookies)
	apires.OK(w, http.StatusOK, nil, "Logged out successfully")
}
