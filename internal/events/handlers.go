package events

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/clock"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var timeSource clock.Clock

// Configure injects the authoritative clock used for RSVP window checks.
// Must be called before SetupRoutes.
func Configure(clk clock.Clock) {
	timeSource = clk
}

// ListEvents returns all events, soonest first.
func ListEvents(w http.ResponseWriter, r *http.Request) {
	var events []Event
	if err := db.DB.Order("starts_at ASC").Find(&events).Error; err != nil {
		http.Error(w, "Failed to fetch events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// GetEvent returns a single event with its RSVPs.
func GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "event_id")

	var event Event
	if err := db.DB.Preload("RSVPs").First(&event, "id = ?", eventID).Error; err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(event)
}

// CreateEvent creates an event (admin only).
func CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if event.Title == "" || event.StartsAt.IsZero() || event.EndsAt.IsZero() {
		http.Error(w, "Title, starts_at and ends_at are required", http.StatusBadRequest)
		return
	}
	if event.RSVPOpensAt.IsZero() {
		event.RSVPOpensAt = timeSource.Now(r.Context()).Time
	}
	if event.RSVPClosesAt.IsZero() {
		event.RSVPClosesAt = event.StartsAt
	}

	if err := db.DB.Create(&event).Error; err != nil {
		http.Error(w, "Failed to create event: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

// UpdateEvent updates an event (admin only).
func UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "event_id")

	var event Event
	if err := db.DB.First(&event, "id = ?", eventID).Error; err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	var updates struct {
		Title        *string `json:"title,omitempty"`
		Description  *string `json:"description,omitempty"`
		Location     *string `json:"location,omitempty"`
		Capacity     *int    `json:"capacity,omitempty"`
		RSVPClosesAt *string `json:"rsvp_closes_at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updateMap := make(map[string]interface{})
	if updates.Title != nil {
		updateMap["title"] = *updates.Title
	}
	if updates.Description != nil {
		updateMap["description"] = *updates.Description
	}
	if updates.Location != nil {
		updateMap["location"] = *updates.Location
	}
	if updates.Capacity != nil {
		updateMap["capacity"] = *updates.Capacity
	}
	if updates.RSVPClosesAt != nil {
		updateMap["rsvp_closes_at"] = *updates.RSVPClosesAt
	}

	if err := db.DB.Model(&event).Updates(updateMap).Error; err != nil {
		http.Error(w, "Failed to update event: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Event updated")
}

// DeleteEvent removes an event and its RSVPs (admin only).
func DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "event_id")

	tx := db.DB.Begin()
	if err := tx.Delete(&RSVP{}, "event_id = ?", eventID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete RSVPs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Delete(&Event{}, "id = ?", eventID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete event: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to commit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateRSVP registers the caller for an event. The RSVP window is checked
// against the authoritative clock; a degraded reading is logged because the
// decision was made on lower-trust time.
func CreateRSVP(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	eventID := chi.URLParam(r, "event_id")

	var event Event
	if err := db.DB.First(&event, "id = ?", eventID).Error; err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	now := timeSource.Now(r.Context())
	if now.Degraded {
		log.Printf("degraded-clock: RSVP window check for event %s using local time", eventID)
	}
	if now.Time.Before(event.RSVPOpensAt) || now.Time.After(event.RSVPClosesAt) {
		http.Error(w, "RSVP window is closed", http.StatusConflict)
		return
	}

	if event.Capacity > 0 {
		var count int64
		if err := db.DB.Model(&RSVP{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
			http.Error(w, "Failed to check capacity", http.StatusInternalServerError)
			return
		}
		if count >= int64(event.Capacity) {
			http.Error(w, "Event is full", http.StatusConflict)
			return
		}
	}

	rsvp := RSVP{EventID: event.ID, AccountID: claims.AccountID}
	if err := db.DB.Create(&rsvp).Error; err != nil {
		http.Error(w, "Already registered", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintln(w, "RSVP confirmed")
}

// DeleteRSVP cancels the caller's registration.
func DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	eventID, err := uuid.Parse(chi.URLParam(r, "event_id"))
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	if err := db.DB.Delete(&RSVP{}, "event_id = ? AND account_id = ?", eventID, claims.AccountID).Error; err != nil {
		http.Error(w, "Failed to cancel RSVP: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
