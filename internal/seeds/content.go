package seeds

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/donations"
	"github.com/AlumniConnect/AC-Backend/internal/events"
	"github.com/AlumniConnect/AC-Backend/internal/jobs"
	"github.com/goccy/go-yaml"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type seedContent struct {
	Jobs []struct {
		PostedBy    string   `yaml:"posted_by"`
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Location    string   `yaml:"location"`
		Tags        []string `yaml:"tags"`
		Deadline    string   `yaml:"deadline"`
	} `yaml:"jobs"`
	Events []struct {
		Title        string `yaml:"title"`
		Description  string `yaml:"description"`
		Location     string `yaml:"location"`
		StartsAt     string `yaml:"starts_at"`
		EndsAt       string `yaml:"ends_at"`
		RSVPOpensAt  string `yaml:"rsvp_opens_at"`
		RSVPClosesAt string `yaml:"rsvp_closes_at"`
		Capacity     int    `yaml:"capacity"`
	} `yaml:"events"`
	Drives []struct {
		Title       string  `yaml:"title"`
		Description string  `yaml:"description"`
		Goal        float64 `yaml:"goal"`
		StartsAt    string  `yaml:"starts_at"`
		EndsAt      string  `yaml:"ends_at"`
	} `yaml:"drives"`
}

func loadContent() (*seedContent, error) {
	file, err := os.ReadFile("internal/seeds/data/content.yaml")
	if err != nil {
		return nil, fmt.Errorf("could not read content.yaml: %w", err)
	}

	var content seedContent
	if err := yaml.Unmarshal(file, &content); err != nil {
		return nil, fmt.Errorf("failed to parse content.yaml: %w", err)
	}
	return &content, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func SeedJobs() error {
	content, err := loadContent()
	if err != nil {
		return err
	}

	for _, sj := range content.Jobs {
		var existing jobs.Job
		err := db.DB.First(&existing, "title = ? AND location = ?", sj.Title, sj.Location).Error

		if err == nil {
			log.Printf("⚠️ Job exists, skipping: %s", sj.Title)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on job %s: %w", sj.Title, err)
		}

		var poster auth.Account
		if err := db.DB.First(&poster, "username = ?", sj.PostedBy).Error; err != nil {
			return fmt.Errorf("unknown poster %s for job %s: %w", sj.PostedBy, sj.Title, err)
		}

		job := jobs.Job{
			PostedBy:    poster.AccountID,
			Title:       sj.Title,
			Description: sj.Description,
			Location:    sj.Location,
			Tags:        pq.StringArray(sj.Tags),
		}
		if sj.Deadline != "" {
			deadline, err := parseDate(sj.Deadline)
			if err != nil {
				return fmt.Errorf("bad deadline for job %s: %w", sj.Title, err)
			}
			job.Deadline = &deadline
		}

		if err := db.DB.Create(&job).Error; err != nil {
			return fmt.Errorf("failed to create job %s: %w", sj.Title, err)
		}
	}

	log.Printf("✅ Seeded %d jobs", len(content.Jobs))
	return nil
}

func SeedEvents() error {
	content, err := loadContent()
	if err != nil {
		return err
	}

	for _, se := range content.Events {
		var existing events.Event
		err := db.DB.First(&existing, "title = ?", se.Title).Error

		if err == nil {
			log.Printf("⚠️ Event exists, skipping: %s", se.Title)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on event %s: %w", se.Title, err)
		}

		startsAt, err := parseDate(se.StartsAt)
		if err != nil {
			return fmt.Errorf("bad starts_at for event %s: %w", se.Title, err)
		}
		endsAt, err := parseDate(se.EndsAt)
		if err != nil {
			return fmt.Errorf("bad ends_at for event %s: %w", se.Title, err)
		}
		opensAt, err := parseDate(se.RSVPOpensAt)
		if err != nil {
			return fmt.Errorf("bad rsvp_opens_at for event %s: %w", se.Title, err)
		}
		closesAt, err := parseDate(se.RSVPClosesAt)
		if err != nil {
			return fmt.Errorf("bad rsvp_closes_at for event %s: %w", se.Title, err)
		}

		event := events.Event{
			Title:        se.Title,
			Description:  se.Description,
			Location:     se.Location,
			StartsAt:     startsAt,
			EndsAt:       endsAt,
			RSVPOpensAt:  opensAt,
			RSVPClosesAt: closesAt,
			Capacity:     se.Capacity,
		}

		if err := db.DB.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", se.Title, err)
		}
	}

	log.Printf("✅ Seeded %d events", len(content.Events))
	return nil
}

func SeedDrives() error {
	content, err := loadContent()
	if err != nil {
		return err
	}

	for _, sd := range content.Drives {
		var existing donations.Drive
		err := db.DB.First(&existing, "title = ?", sd.Title).Error

		if err == nil {
			log.Printf("⚠️ Drive exists, skipping: %s", sd.Title)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on drive %s: %w", sd.Title, err)
		}

		startsAt, err := parseDate(sd.StartsAt)
		if err != nil {
			return fmt.Errorf("bad starts_at for drive %s: %w", sd.Title, err)
		}
		endsAt, err := parseDate(sd.EndsAt)
		if err != nil {
			return fmt.Errorf("bad ends_at for drive %s: %w", sd.Title, err)
		}

		drive := donations.Drive{
			Title:       sd.Title,
			Description: sd.Description,
			Goal:        sd.Goal,
			StartsAt:    startsAt,
			EndsAt:      endsAt,
		}

		if err := db.DB.Create(&drive).Error; err != nil {
			return fmt.Errorf("failed to create drive %s: %w", sd.Title, err)
		}
	}

	log.Printf("✅ Seeded %d drives", len(content.Drives))
	return nil
}
