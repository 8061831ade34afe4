package donations

import (
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(accessVerifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	// Public routes - drive progress is visible to everyone
	r.Get("/", ListDrives)
	r.Get("/{drive_id}", GetDrive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(accessVerifier))

		r.Post("/{drive_id}/donate", Donate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/", CreateDrive)
		})
	})

	return r
}
