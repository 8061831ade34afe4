package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/clock"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/donations"
	"github.com/AlumniConnect/AC-Backend/internal/events"
	"github.com/AlumniConnect/AC-Backend/internal/jobs"
	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/AlumniConnect/AC-Backend/internal/profiles"
	"github.com/AlumniConnect/AC-Backend/internal/token"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	tokenCfg := token.LoadConfigFromEnv()
	issuer, err := token.NewIssuer(tokenCfg)
	if err != nil {
		// Missing secrets mean every login would fail. Refuse to start.
		log.Fatal("Token configuration error: ", err)
	}
	accessVerifier := token.NewAccessVerifier(tokenCfg)
	refreshVerifier := token.NewRefreshVerifier(tokenCfg)

	timeSource := clock.NewHTTPClock(clock.LoadConfigFromEnv())

	auth.Configure(issuer, refreshVerifier, timeSource, tokenCfg)
	jobs.Configure(timeSource)
	events.Configure(timeSource)
	donations.Configure(timeSource)

	auth.Init()
	profiles.Init()
	jobs.Init()
	events.Init()
	donations.Init()

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes(accessVerifier))
	r.Mount("/profiles", profiles.SetupRoutes(accessVerifier))
	r.Mount("/jobs", jobs.SetupRoutes(accessVerifier))
	r.Mount("/events", events.SetupRoutes(accessVerifier))
	r.Mount("/donations", donations.SetupRoutes(accessVerifier))

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
