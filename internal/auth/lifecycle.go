package auth

import (
	"errors"
	"log"

	"github.com/AlumniConnect/AC-Backend/internal/clock"
	"gorm.io/gorm"
)

// ErrContractExpired means the logging-in partner's contract has lapsed.
// Surfaced as 403 even when the credentials were correct.
var ErrContractExpired = errors.New("partner contract expired")

// ReconcileContracts runs inline during login, before token issuance. It
// flips every partner company whose expiry date is behind the authoritative
// clock to Inactive — a side effect independent of which account is logging
// in — and then reports whether the given account is still eligible.
//
// This is a full scan over partner companies on every login. Acceptable at
// current scale; at larger scale it belongs in a periodic background sweep.
func ReconcileContracts(d *gorm.DB, accountID string, now clock.Reading) error {
	if now.Degraded {
		log.Printf("degraded-clock: reconciling contracts against local time")
	}

	if err := d.Model(&PartnerCompany{}).
		Where("expiry_date < ? AND account_status = ?", now.Time, StatusActive).
		Update("account_status", StatusInactive).Error; err != nil {
		return err
	}

	var company PartnerCompany
	err := d.First(&company, "account_id = ?", accountID).Error
	if err != nil {
		// Accounts without a company row (admin, alumni) have no contract to check.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if company.AccountStatus == StatusInactive {
		return ErrContractExpired
	}
	return nil
}
