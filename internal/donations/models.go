package donations

import (
	"time"

	"github.com/google/uuid"
)

// Drive is a fundraising campaign with a contribution window.
type Drive struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Goal        float64   `gorm:"not null" json:"goal"`
	Raised      float64   `gorm:"not null;default:0" json:"raised"`
	StartsAt    time.Time `gorm:"not null" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Donations []Donation `gorm:"foreignKey:DriveID" json:"donations,omitempty"`
}

type Donation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DriveID   uuid.UUID `gorm:"type:uuid;not null;index" json:"drive_id"`
	AccountID string    `gorm:"not null;index" json:"account_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (Drive) TableName() string    { return "portal.drives" }
func (Donation) TableName() string { return "portal.donations" }
