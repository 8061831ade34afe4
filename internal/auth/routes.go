package auth

import (
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the auth endpoints. The access verifier gates the
// account-management routes; login and register sit behind a per-IP rate
// limiter.
func SetupRoutes(accessVerifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	limiter := middleware.NewIPRateLimiter(1, 10)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Post("/register", RegisterHandler)
		r.Post("/login", LoginHandler)
	})

	// Refresh authenticates with the refresh cookie, not the access token.
	r.Post("/refresh", RefreshHandler)
	// Logout only clears cookies; it must work with an expired token too.
	r.Post("/logout", LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(accessVerifier))
		r.Get("/me", MeHandler)
		r.Post("/password", UpdatePasswordHandler)
		r.Post("/username", UpdateUsernameHandler)
		r.Delete("/account", DeregisterHandler)
	})

	return r
}
