// internal/app/system/auth/cookies.go
package auth

import (
	"net/http"
	"strings"
)

// Cookie names shared with the frontend.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// SetAuthCookies sets both tokens as httpOnly, SameSite=Strict cookies.
// secure should be true in production (HTTPS) deployments.
func SetAuthCookies(w http.ResponseWriter, access, refresh string, secure bool) {
	http.SetCookie(w, authCookie(AccessCookie, access, secure, 0))
	http.SetCookie(w, authCookie(RefreshCookie, refresh, secure, 0))
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, authCookie(AccessCookie, "", secure, -1))
	http.SetCookie(w, authCookie(RefreshCookie, "", secure, -1))
}

func authCookie(name, value string, secure bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// AccessTokenFromRequest extracts the access token from the cookie or,
// failing that, a bearer Authorization header.
func AccessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RefreshTokenFromRequest extracts the refresh token from the cookie.
// Handlers fall back to the request body when the cookie is absent.
func RefreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshCookie); err == nil {
		return c.Value
	}
	return ""
}
