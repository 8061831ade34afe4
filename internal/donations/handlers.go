package donations

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/clock"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

var timeSource clock.Clock

// Configure injects the authoritative clock used for drive window checks.
// Must be called before SetupRoutes.
func Configure(clk clock.Clock) {
	timeSource = clk
}

// ListDrives returns all donation drives, newest first.
func ListDrives(w http.ResponseWriter, r *http.Request) {
	var drives []Drive
	if err := db.DB.Order("starts_at DESC").Find(&drives).Error; err != nil {
		http.Error(w, "Failed to fetch drives: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(drives)
}

// GetDrive returns a single drive with its donations.
func GetDrive(w http.ResponseWriter, r *http.Request) {
	driveID := chi.URLParam(r, "drive_id")

	var drive Drive
	if err := db.DB.Preload("Donations").First(&drive, "id = ?", driveID).Error; err != nil {
		http.Error(w, "Drive not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(drive)
}

// CreateDrive creates a drive (admin only).
func CreateDrive(w http.ResponseWriter, r *http.Request) {
	var drive Drive
	if err := json.NewDecoder(r.Body).Decode(&drive); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if drive.Title == "" || drive.Goal <= 0 {
		http.Error(w, "Title and a positive goal are required", http.StatusBadRequest)
		return
	}

	if err := db.DB.Create(&drive).Error; err != nil {
		http.Error(w, "Failed to create drive: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(drive)
}

// Donate records a contribution from the caller and bumps the drive's
// running total in one transaction. The contribution window is checked
// against the authoritative clock.
func Donate(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	driveID := chi.URLParam(r, "drive_id")

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		http.Error(w, "A positive amount is required", http.StatusBadRequest)
		return
	}

	var drive Drive
	if err := db.DB.First(&drive, "id = ?", driveID).Error; err != nil {
		http.Error(w, "Drive not found", http.StatusNotFound)
		return
	}

	now := timeSource.Now(r.Context())
	if now.Degraded {
		log.Printf("degraded-clock: drive window check for drive %s using local time", driveID)
	}
	if now.Time.Before(drive.StartsAt) || now.Time.After(drive.EndsAt) {
		http.Error(w, "Drive is not accepting donations", http.StatusConflict)
		return
	}

	donation := Donation{
		DriveID:   drive.ID,
		AccountID: claims.AccountID,
		Amount:    req.Amount,
	}

	tx := db.DB.Begin()
	if err := tx.Create(&donation).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to record donation: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Model(&Drive{}).Where("id = ?", drive.ID).
		Update("raised", gorm.Expr("raised + ?", req.Amount)).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to update drive total: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to commit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(donation)
}
