package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AlumniConnect/AC-Backend/internal/clock"
	"github.com/AlumniConnect/AC-Backend/internal/db"
	"github.com/AlumniConnect/AC-Backend/internal/token"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/text/secure/precis"
	"gorm.io/gorm"
)

// Package-level collaborators, injected once at startup via Configure.
// Secrets are never read from the environment inside handlers.
var (
	issuer          *token.Issuer
	refreshVerifier *token.Verifier
	timeSource      clock.Clock
	tokenCfg        token.Config
)

// Configure injects the token issuer, the refresh-token verifier, and the
// authoritative clock. Must be called before SetupRoutes.
func Configure(iss *token.Issuer, refresh *token.Verifier, clk clock.Clock, cfg token.Config) {
	issuer = iss
	refreshVerifier = refresh
	timeSource = clk
	tokenCfg = cfg
}

// normalizeUsername applies the PRECIS UsernameCaseMapped profile so that
// lookups are stable across case and Unicode representation.
func normalizeUsername(raw string) (string, error) {
	return precis.UsernameCaseMapped.String(strings.TrimSpace(raw))
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Company  *struct {
		Name          string    `json:"name"`
		EffectiveDate time.Time `json:"effective_date"`
		ExpiryDate    time.Time `json:"expiry_date"`
	} `json:"company,omitempty"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Admin accounts are created by the seeder only, never self-registered.
	if req.Role != RoleAlumni && req.Role != RolePartner {
		http.Error(w, "Role must be alumni or partner", http.StatusBadRequest)
		return
	}

	if req.Role == RolePartner && req.Company == nil {
		http.Error(w, "Partner registration requires company details", http.StatusBadRequest)
		return
	}

	username, err := normalizeUsername(req.Username)
	if err != nil {
		http.Error(w, "Invalid username", http.StatusBadRequest)
		return
	}

	var existing Account
	if err := db.DB.First(&existing, "username = ?", username).Error; err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	account := Account{
		AccountID:      uuid.New().String(),
		Username:       username,
		HashedPassword: hashed,
		Role:           req.Role,
	}

	tx := db.DB.Begin()
	if err := tx.Create(&account).Error; err != nil {
		tx.Rollback()
		// The existence check above can race a concurrent registration;
		// the unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to register account", http.StatusInternalServerError)
		return
	}
	if req.Role == RolePartner {
		company := PartnerCompany{
			AccountID:     account.AccountID,
			Name:          req.Company.Name,
			EffectiveDate: req.Company.EffectiveDate,
			ExpiryDate:    req.Company.ExpiryDate,
			AccountStatus: StatusActive,
		}
		if err := tx.Create(&company).Error; err != nil {
			tx.Rollback()
			http.Error(w, "Failed to register company", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to register account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"account_id": account.AccountID,
		"username":   account.Username,
		"role":       account.Role,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	username, err := normalizeUsername(req.Username)
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	var account Account
	if err := db.DB.First(&account, "username = ?", username).Error; err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	if !VerifyPassword(account.HashedPassword, req.Password) {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	// Credentials are good; now reconcile contract state against the
	// authoritative clock and check this account's eligibility.
	now := timeSource.Now(r.Context())
	if err := ReconcileContracts(db.DB, account.AccountID, now); err != nil {
		if errors.Is(err, ErrContractExpired) {
			log.Printf("auth: login rejected, contract expired account_id=%s degraded_clock=%t", account.AccountID, now.Degraded)
			http.Error(w, "Account inactive", http.StatusForbidden)
			return
		}
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	pair, err := issuer.Issue(account.AccountID, account.Username, account.Role)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&account).Update("last_login_at", now.Time).Error; err != nil {
		log.Printf("auth: failed to stamp last login account_id=%s: %v", account.AccountID, err)
	}

	setAccessCookie(w, pair.AccessToken, tokenCfg.AccessTTL)
	setRefreshCookie(w, pair.RefreshToken, tokenCfg.RefreshTTL)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"role": account.Role})
}

// RefreshHandler exchanges a valid refresh-token cookie for a new access
// token. The refresh token itself is not rotated. Concurrent refreshes of
// the same refresh token each succeed and each produce a valid access token.
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := refreshVerifier.Verify(cookie.Value)
	if err != nil {
		log.Printf("auth: refresh rejected: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Re-read the account so a rename or role change since login is
	// reflected in the new token, and deregistered accounts can't refresh.
	var account Account
	if err := db.DB.First(&account, "account_id = ?", claims.AccountID).Error; err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	access, err := issuer.IssueAccess(account.AccountID, account.Username, account.Role)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	setAccessCookie(w, access, tokenCfg.AccessTTL)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Token refreshed")
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	clearAuthCookies(w)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"account_id": claims.AccountID,
		"username":   claims.Username,
		"role":       claims.Role,
	})
}

func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	var account Account
	if err := db.DB.First(&account, "account_id = ?", claims.AccountID).Error; err != nil {
		http.Error(w, "Couldn't find account", http.StatusUnauthorized)
		return
	}

	if !VerifyPassword(account.HashedPassword, req.CurrentPassword) {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&account).Update("hashed_password", hashed).Error; err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}

// UpdateUsernameHandler renames the account. Concurrent renames of the same
// account are not serialized: last writer wins.
func UpdateUsernameHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		NewUsername string `json:"new_username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewUsername == "" {
		http.Error(w, "New username is required", http.StatusBadRequest)
		return
	}

	username, err := normalizeUsername(req.NewUsername)
	if err != nil {
		http.Error(w, "Invalid username", http.StatusBadRequest)
		return
	}

	var existing Account
	if err := db.DB.First(&existing, "username = ?", username).Error; err == nil && existing.AccountID != claims.AccountID {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	if err := db.DB.Model(&Account{}).Where("account_id = ?", claims.AccountID).
		Update("username", username).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to update username", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"username": username})
}

// DeregisterHandler removes the account and everything hanging off it.
// Collaborator rows live in the portal schema and are cleared in the same
// transaction.
func DeregisterHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
		return
	}

	for _, stmt := range []string{
		`DELETE FROM portal.rsvps WHERE account_id = ?`,
		`DELETE FROM portal.profiles WHERE account_id = ?`,
		`DELETE FROM portal.jobs WHERE posted_by = ?`,
	} {
		if err := tx.Exec(stmt, claims.AccountID).Error; err != nil {
			tx.Rollback()
			http.Error(w, "Failed to remove account data", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Delete(&PartnerCompany{}, "account_id = ?", claims.AccountID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to remove company", http.StatusInternalServerError)
		return
	}
	if err := tx.Delete(&Account{}, "account_id = ?", claims.AccountID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to remove account", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to commit", http.StatusInternalServerError)
		return
	}

	clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}
