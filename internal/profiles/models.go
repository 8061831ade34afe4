package profiles

import (
	"time"

	"github.com/lib/pq"
)

// Profile is the alumni-facing directory entry, keyed by the owning account.
type Profile struct {
	AccountID string         `gorm:"primaryKey" json:"account_id"`
	FullName  string         `gorm:"not null" json:"full_name"`
	GradYear  int            `json:"grad_year"`
	Major     string         `json:"major"`
	Employer  string         `json:"employer"`
	Bio       string         `json:"bio"`
	Interests pq.StringArray `gorm:"type:text[]" json:"interests"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Profile) TableName() string { return "portal.profiles" }
