package seeds

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/profiles"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type seedAccount struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Company  *struct {
		Name          string `yaml:"name"`
		EffectiveDate string `yaml:"effective_date"`
		ExpiryDate    string `yaml:"expiry_date"`
	} `yaml:"company"`
	Profile *struct {
		FullName  string   `yaml:"full_name"`
		GradYear  int      `yaml:"grad_year"`
		Major     string   `yaml:"major"`
		Employer  string   `yaml:"employer"`
		Bio       string   `yaml:"bio"`
		Interests []string `yaml:"interests"`
	} `yaml:"profile"`
}

func SeedAccounts() error {
	var accounts []seedAccount

	file, err := os.ReadFile("internal/seeds/data/accounts.yaml")
	if err != nil {
		return fmt.Errorf("could not read accounts.yaml: %w", err)
	}

	if err := yaml.Unmarshal(file, &accounts); err != nil {
		return fmt.Errorf("failed to parse accounts.yaml: %w", err)
	}

	for _, sa := range accounts {
		var existing auth.Account
		err := db.DB.First(&existing, "username = ?", sa.Username).Error

		if err == nil {
			log.Printf("⚠️ Account exists, skipping: %s", sa.Username)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on account %s: %w", sa.Username, err)
		}

		hashed, err := auth.HashPassword(sa.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", sa.Username, err)
		}

		account := auth.Account{
			AccountID:      uuid.NewString(),
			Username:       sa.Username,
			HashedPassword: hashed,
			Role:           sa.Role,
		}

		if sa.Company != nil {
			effective, err := time.Parse("2006-01-02", sa.Company.EffectiveDate)
			if err != nil {
				return fmt.Errorf("bad effective_date for %s: %w", sa.Username, err)
			}
			expiry, err := time.Parse("2006-01-02", sa.Company.ExpiryDate)
			if err != nil {
				return fmt.Errorf("bad expiry_date for %s: %w", sa.Username, err)
			}
			account.Company = &auth.PartnerCompany{
				AccountID:     account.AccountID,
				Name:          sa.Company.Name,
				EffectiveDate: effective,
				ExpiryDate:    expiry,
				AccountStatus: auth.StatusActive,
			}
		}

		if err := db.DB.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to create account %s: %w", sa.Username, err)
		}

		if sa.Profile != nil {
			profile := profiles.Profile{
				AccountID: account.AccountID,
				FullName:  sa.Profile.FullName,
				GradYear:  sa.Profile.GradYear,
				Major:     sa.Profile.Major,
				Employer:  sa.Profile.Employer,
				Bio:       sa.Profile.Bio,
				Interests: pq.StringArray(sa.Profile.Interests),
			}
			if err := db.DB.Create(&profile).Error; err != nil {
				return fmt.Errorf("failed to create profile for %s: %w", sa.Username, err)
			}
		}
	}

	log.Printf("✅ Seeded %d accounts", len(accounts))
	return nil
}
