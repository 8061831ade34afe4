package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job is a board posting created by a partner (or admin on their behalf).
type Job struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	PostedBy    string         `gorm:"not null;index" json:"posted_by"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// DeadlinePassed is derived from the authoritative clock at read time,
	// never stored. Nil when the posting has no deadline.
	DeadlinePassed *bool `gorm:"-" json:"deadline_passed,omitempty"`
}

func (Job) TableName() string { return "portal.jobs" }
