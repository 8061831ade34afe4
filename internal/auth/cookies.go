package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/AlumniConnect/AC-Backend/internal/middleware"
)

const (
	// AccessTokenCookie mirrors the middleware's cookie name.
	AccessTokenCookie  = middleware.AccessTokenCookie
	RefreshTokenCookie = "refresh-token"
)

// productionCookies reports whether cookies should be issued with Secure and
// SameSite=Strict. Local dev (and httptest) runs over plain HTTP, so the
// strict attributes would make browsers drop the cookies.
func productionCookies() bool {
	return os.Getenv("APP_ENV") == "production"
}

func authCookie(name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
	if productionCookies() {
		cookie.SameSite = http.SameSiteStrictMode
		cookie.Secure = true
	}
	return cookie
}

func setAccessCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, authCookie(AccessTokenCookie, value, ttl))
}

func setRefreshCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, authCookie(RefreshTokenCookie, value, ttl))
}

// clearAuthCookies expires both cookies. Logout is purely client-side cookie
// deletion; an already-issued token stays valid until it expires.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := authCookie(name, "", 0)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}
