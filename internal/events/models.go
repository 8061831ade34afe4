package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is an alumni gathering with an RSVP window. Window comparisons use
// the authoritative clock, never the request host's local time.
type Event struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartsAt     time.Time `gorm:"not null" json:"starts_at"`
	EndsAt       time.Time `gorm:"not null" json:"ends_at"`
	RSVPOpensAt  time.Time `gorm:"not null" json:"rsvp_opens_at"`
	RSVPClosesAt time.Time `gorm:"not null" json:"rsvp_closes_at"`
	Capacity     int       `gorm:"default:0" json:"capacity"` // 0 = unlimited
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	RSVPs []RSVP `gorm:"foreignKey:EventID" json:"rsvps,omitempty"`
}

type RSVP struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	AccountID string    `gorm:"primaryKey" json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Event) TableName() string { return "portal.events" }
func (RSVP) TableName() string  { return "portal.rsvps" }
