package auth

import "time"

// Roles are a closed set. There is no hierarchy: admin is not "alumni+".
const (
	RoleAdmin   = "admin"
	RoleAlumni  = "alumni"
	RolePartner = "partner"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAlumni || role == RolePartner
}

// Partner company account statuses. AccountStatus is derived state: it must
// be Inactive whenever the contract's expiry date is in the past. The
// invariant is enforced lazily at login time, not continuously.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type Account struct {
	AccountID      string     `gorm:"primaryKey" json:"account_id"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Password       string     `json:"password" gorm:"-"`
	HashedPassword string     `json:"-"`
	Role           string     `gorm:"not null;default:'alumni'" json:"role"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Company *PartnerCompany `gorm:"foreignKey:AccountID" json:"company,omitempty"`
}

// PartnerCompany is 1:1 with a partner Account and carries the contract
// window that gates the partner's login eligibility.
type PartnerCompany struct {
	AccountID     string    `gorm:"primaryKey" json:"account_id"`
	Name          string    `gorm:"not null" json:"name"`
	EffectiveDate time.Time `gorm:"not null" json:"effective_date"`
	ExpiryDate    time.Time `gorm:"not null" json:"expiry_date"`
	AccountStatus string    `gorm:"not null;default:'Active'" json:"account_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Account) TableName() string        { return "app_auth.accounts" }
func (PartnerCompany) TableName() string { return "app_auth.partner_companies" }
