package events

import (
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(accessVerifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	// Public routes - the event calendar is open
	r.Get("/", ListEvents)
	r.Get("/{event_id}", GetEvent)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(accessVerifier))

		r.Post("/{event_id}/rsvp", CreateRSVP)
		r.Delete("/{event_id}/rsvp", DeleteRSVP)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/", CreateEvent)
			r.Put("/{event_id}", UpdateEvent)
			r.Delete("/{event_id}", DeleteEvent)
		})
	})

	return r
}
