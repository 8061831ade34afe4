package jobs

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
	"github.com/AlumniConnect/AC-Backend/internal/clock"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

var timeSource clock.Clock

// Configure injects the authoritative clock used to surface deadlines.
// Must be called before SetupRoutes.
func Configure(clk clock.Clock) {
	timeSource = clk
}

// markDeadline annotates whether the posting's deadline lies behind the
// given reading. Postings without a deadline stay unannotated.
func markDeadline(job *Job, now clock.Reading) {
	if job.Deadline == nil {
		return
	}
	passed := now.Time.After(*job.Deadline)
	job.DeadlinePassed = &passed
}

// ListJobs returns postings, optionally filtered by tag.
func ListJobs(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&Job{})

	if tag := r.URL.Query().Get("tag"); tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}

	var jobs []Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		http.Error(w, "Failed to fetch jobs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	now := timeSource.Now(r.Context())
	if now.Degraded {
		log.Printf("degraded-clock: job deadlines surfaced against local time")
	}
	for i := range jobs {
		markDeadline(&jobs[i], now)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetJob returns a single posting.
func GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	var job Job
	if err := db.DB.First(&job, "id = ?", jobID).Error; err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	now := timeSource.Now(r.Context())
	if now.Degraded {
		log.Printf("degraded-clock: job deadline surfaced against local time")
	}
	markDeadline(&job, now)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// CreateJob creates a posting owned by the caller (partner or admin).
func CreateJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var job Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if job.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	job.PostedBy = claims.AccountID

	if err := db.DB.Create(&job).Error; err != nil {
		http.Error(w, "Failed to create job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// canEdit reports whether the caller owns the posting or is an admin.
func canEdit(claims utils.SessionClaims, job Job) bool {
	return claims.Role == auth.RoleAdmin || job.PostedBy == claims.AccountID
}

// UpdateJob updates a posting (owner or admin).
func UpdateJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	jobID := chi.URLParam(r, "job_id")

	var job Job
	if err := db.DB.First(&job, "id = ?", jobID).Error; err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if !canEdit(claims, job) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var updates struct {
		Title       *string   `json:"title,omitempty"`
		Description *string   `json:"description,omitempty"`
		Location    *string   `json:"location,omitempty"`
		Tags        *[]string `json:"tags,omitempty"`
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
	if updates.Tags != nil {
		updateMap["tags"] = pq.StringArray(*updates.Tags)
	}

	if err := db.DB.Model(&job).Updates(updateMap).Error; err != nil {
		http.Error(w, "Failed to update job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Job updated")
}

// DeleteJob removes a posting (owner or admin).
func DeleteJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	jobID := chi.URLParam(r, "job_id")

	var job Job
	if err := db.DB.First(&job, "id = ?", jobID).Error; err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if !canEdit(claims, job) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := db.DB.Delete(&job).Error; err != nil {
		http.Error(w, "Failed to delete job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
