package main

import (
	"log"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/donations"
	"github.com/AlumniConnect/AC-Backend/internal/events"
	"github.com/AlumniConnect/AC-Backend/internal/jobs"
	"github.com/AlumniConnect/AC-Backend/internal/profiles"
	"github.com/AlumniConnect/AC-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env.local")

	db.Connect()

	auth.Init()
	profiles.Init()
	jobs.Init()
	events.Init()
	donations.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
