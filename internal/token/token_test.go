package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/AlumniConnect/AC-Backend/internal/token"
)

func testConfig() token.Config {
	return token.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     10 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func mustIssuer(t *testing.T, cfg token.Config) *token.Issuer {
	t.Helper()
	iss, err := token.NewIssuer(cfg)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

// TestIssueThenVerifyRoundtrip verifies that issuing a pair and immediately
// verifying each token with its own secret returns the original claims unchanged.
func TestIssueThenVerifyRoundtrip(t *testing.T) {
	cfg := testConfig()
	iss := mustIssuer(t, cfg)

	pair, err := iss.Issue("acct-123", "jdoe", "alumni")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	access, err := token.NewAccessVerifier(cfg).Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if access.AccountID != "acct-123" || access.Username != "jdoe" || access.Role != "alumni" {
		t.Errorf("access claims mismatch: %+v", access)
	}

	refresh, err := token.NewRefreshVerifier(cfg).Verify(pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
	if refresh.AccountID != "acct-123" || refresh.Role != "alumni" {
		t.Errorf("refresh claims mismatch: %+v", refresh)
	}
}

// TestWrongSecretIsInvalidSignature verifies that a token checked with the
// wrong secret always fails with ErrInvalidSignature, never returns claims.
// This also pins the access/refresh secret independence: an access token
// must not pass the refresh verifier and vice versa.
func TestWrongSecretIsInvalidSignature(t *testing.T) {
	cfg := testConfig()
	iss := mustIssuer(t, cfg)

	pair, err := iss.Issue("acct-123", "jdoe", "alumni")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := token.NewRefreshVerifier(cfg).Verify(pair.AccessToken); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("access token against refresh secret: want ErrInvalidSignature, got %v", err)
	}
	if _, err := token.NewAccessVerifier(cfg).Verify(pair.RefreshToken); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("refresh token against access secret: want ErrInvalidSignature, got %v", err)
	}

	other := cfg
	other.AccessSecret = "a-completely-different-secret"
	if _, err := token.NewAccessVerifier(other).Verify(pair.AccessToken); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("wrong secret: want ErrInvalidSignature, got %v", err)
	}
}

// TestExpiryBoundary pins the boundary decision: a token is valid one second
// before its expiry instant and rejected with ErrExpired at exactly that instant.
func TestExpiryBoundary(t *testing.T) {
	cfg := testConfig()
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	iss := mustIssuer(t, cfg).WithTimeFunc(func() time.Time { return issuedAt })

	pair, err := iss.Issue("acct-123", "jdoe", "alumni")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expiry := issuedAt.Add(cfg.AccessTTL)

	justBefore := token.NewAccessVerifier(cfg).WithTimeFunc(func() time.Time { return expiry.Add(-1 * time.Second) })
	if _, err := justBefore.Verify(pair.AccessToken); err != nil {
		t.Errorf("one second before expiry: want valid, got %v", err)
	}

	atExpiry := token.NewAccessVerifier(cfg).WithTimeFunc(func() time.Time { return expiry })
	if _, err := atExpiry.Verify(pair.AccessToken); !errors.Is(err, token.ErrExpired) {
		t.Errorf("at expiry instant: want ErrExpired, got %v", err)
	}

	after := token.NewAccessVerifier(cfg).WithTimeFunc(func() time.Time { return expiry.Add(time.Hour) })
	if _, err := after.Verify(pair.AccessToken); !errors.Is(err, token.ErrExpired) {
		t.Errorf("after expiry: want ErrExpired, got %v", err)
	}
}

// TestMalformedToken verifies garbage input maps to ErrMalformed.
func TestMalformedToken(t *testing.T) {
	cfg := testConfig()
	for _, bad := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := token.NewAccessVerifier(cfg).Verify(bad); !errors.Is(err, token.ErrMalformed) {
			t.Errorf("Verify(%q): want ErrMalformed, got %v", bad, err)
		}
	}
}

// TestMissingSecretIsConfigurationError verifies that constructing an issuer
// without either secret fails, so the problem aborts startup instead of
// surfacing on a request.
func TestMissingSecretIsConfigurationError(t *testing.T) {
	cfg := testConfig()
	cfg.AccessSecret = ""
	if _, err := token.NewIssuer(cfg); !errors.Is(err, token.ErrMissingAccessSecret) {
		t.Errorf("want ErrMissingAccessSecret, got %v", err)
	}

	cfg = testConfig()
	cfg.RefreshSecret = ""
	if _, err := token.NewIssuer(cfg); !errors.Is(err, token.ErrMissingRefreshSecret) {
		t.Errorf("want ErrMissingRefreshSecret, got %v", err)
	}
}
