package profiles

import (
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(accessVerifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(accessVerifier))

		r.Get("/", ListProfiles)
		r.Get("/me", GetMyProfile)
		r.Put("/me", UpsertMyProfile)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Delete("/{account_id}", DeleteProfile)
		})
	})

	return r
}
