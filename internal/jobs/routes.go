package jobs

import (
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(accessVerifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	// Public routes - anyone can browse the board
	r.Get("/", ListJobs)
	r.Get("/{job_id}", GetJob)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(accessVerifier))
		r.Use(middleware.RequireRole(auth.RolePartner, auth.RoleAdmin))

		r.Post("/", CreateJob)
		r.Put("/{job_id}", UpdateJob)
		r.Delete("/{job_id}", DeleteJob)
	})

	return r
}
