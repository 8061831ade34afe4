package token

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Handlers collapse all of these to a generic 401;
// they stay distinct so the middleware can log which kind occurred.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

// Configuration errors. These are fatal at startup and never reach a request.
var (
	ErrMissingAccessSecret  = errors.New("ACCESS_TOKEN_SECRET environment variable is required")
	ErrMissingRefreshSecret = errors.New("REFRESH_TOKEN_SECRET environment variable is required")
)

const (
	DefaultAccessTTL  = 10 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds the two independent signing secrets and token lifetimes.
// Access and refresh tokens are signed with distinct secrets so that
// compromise of one does not compromise the other.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Environment variables:
//   - ACCESS_TOKEN_SECRET: HMAC secret for access tokens (required)
//   - REFRESH_TOKEN_SECRET: HMAC secret for refresh tokens (required)
//   - ACCESS_TOKEN_TTL: access token lifetime (default: 10m)
//   - REFRESH_TOKEN_TTL: refresh token lifetime (default: 168h)
func LoadConfigFromEnv() Config {
	cfg := Config{
		AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTTL:     DefaultAccessTTL,
		RefreshTTL:    DefaultRefreshTTL,
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AccessTTL = d
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshTTL = d
		}
	}
	return cfg
}

// Validate checks that both signing secrets are present.
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return ErrMissingAccessSecret
	}
	if c.RefreshSecret == "" {
		return ErrMissingRefreshSecret
	}
	return nil
}

// Claims is the decoded token payload: identity, role, and timestamps.
// Claims are never persisted server-side.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// Pair is one session's worth of credentials: a short-lived access token
// and a long-lived refresh token.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints signed access/refresh token pairs.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer validates the configuration and returns an Issuer.
// A missing secret is a configuration error; callers treat it as fatal.
func NewIssuer(cfg Config) (*Issuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// Issue embeds the account's identity in both tokens and signs each with
// its own secret. Signing cannot fail on valid input.
func (i *Issuer) Issue(accountID, username, role string) (Pair, error) {
	access, err := i.sign(accountID, username, role, i.cfg.AccessSecret, i.cfg.AccessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := i.sign(accountID, username, role, i.cfg.RefreshSecret, i.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("signing refresh token: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints a fresh access token only. The refresh endpoint uses
// this: refresh tokens are not rotated on use.
func (i *Issuer) IssueAccess(accountID, username, role string) (string, error) {
	return i.sign(accountID, username, role, i.cfg.AccessSecret, i.cfg.AccessTTL)
}

func (i *Issuer) sign(accountID, username, role, secret string, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		Username:  username,
		Role:      role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verifier validates a token's signature and expiry against one secret.
// Verification is stateless and safe to run concurrently.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewAccessVerifier returns a Verifier bound to the access-token secret.
func NewAccessVerifier(cfg Config) *Verifier {
	return &Verifier{secret: []byte(cfg.AccessSecret), now: time.Now}
}

// NewRefreshVerifier returns a Verifier bound to the refresh-token secret.
// The refresh endpoint must never verify against the access secret.
func NewRefreshVerifier(cfg Config) *Verifier {
	return &Verifier{secret: []byte(cfg.RefreshSecret), now: time.Now}
}

// Verify checks signature and expiry, returning the claims or one of
// ErrMalformed, ErrInvalidSignature, ErrExpired. A token is rejected at
// the exact expiry instant: valid only while now < exp.
//
// There is no replay protection beyond expiry: a stolen, unexpired token
// is indistinguishable from a legitimate one. Accepted tradeoff of the
// stateless design.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !tok.Valid {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}

// WithTimeFunc overrides the verifier's clock. Used by tests to pin the
// expiry boundary.
func (v *Verifier) WithTimeFunc(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// WithTimeFunc overrides the issuer's clock. Used by tests.
func (i *Issuer) WithTimeFunc(now func() time.Time) *Issuer {
	i.now = now
	return i
}
