package profiles

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// ListProfiles returns the alumni directory, optionally filtered by grad year.
func ListProfiles(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&Profile{})

	if yearStr := r.URL.Query().Get("grad_year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "Invalid grad_year format", http.StatusBadRequest)
			return
		}
		query = query.Where("grad_year = ?", year)
	}

	var profiles []Profile
	if err := query.Order("full_name ASC").Find(&profiles).Error; err != nil {
		http.Error(w, "Failed to fetch profiles: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

// GetMyProfile returns the caller's own profile.
func GetMyProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profile Profile
	if err := db.DB.First(&profile, "account_id = ?", claims.AccountID).Error; err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// UpsertMyProfile creates or replaces the caller's profile.
func UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if profile.FullName == "" {
		http.Error(w, "Full name is required", http.StatusBadRequest)
		return
	}
	profile.AccountID = claims.AccountID

	var existing Profile
	if err := db.DB.First(&existing, "account_id = ?", claims.AccountID).Error; err == nil {
		if err := db.DB.Model(&existing).Updates(map[string]interface{}{
			"full_name": profile.FullName,
			"grad_year": profile.GradYear,
			"major":     profile.Major,
			"employer":  profile.Employer,
			"bio":       profile.Bio,
			"interests": profile.Interests,
		}).Error; err != nil {
			http.Error(w, "Failed to update profile: "+err.Error(), http.StatusInternalServerError)
			return
		}
	} else {
		if err := db.DB.Create(&profile).Error; err != nil {
			http.Error(w, "Failed to create profile: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// DeleteProfile removes a directory entry (admin only).
func DeleteProfile(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	if err := db.DB.Delete(&Profile{}, "account_id = ?", accountID).Error; err != nil {
		http.Error(w, "Failed to delete profile: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Profile deleted")
}
