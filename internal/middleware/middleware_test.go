package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlumniConnect/AC-Backend/internal/middleware"
	"github.com/AlumniConnect/AC-Backend/internal/token"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
)

// mockVerifier implements middleware.TokenVerifier without any real signing.
type mockVerifier struct {
	claims *token.Claims
	err    error
}

func (m mockVerifier) Verify(tokenString string) (*token.Claims, error) {
	return m.claims, m.err
}

// callWithCookie wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting one cookie on the request, and returns the recorded response.
func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestAuthenticator_MissingCookie verifies that a request with no access-token
// cookie receives a 401 response.
func TestAuthenticator_MissingCookie(t *testing.T) {
	mw := middleware.Authenticator(mockVerifier{})

	rec := callWithCookie(t, mw, "", "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestAuthenticator_VerifierErrors verifies that every verification failure
// kind (expired, bad signature, malformed) collapses to the same external 401.
func TestAuthenticator_VerifierErrors(t *testing.T) {
	for _, verifyErr := range []error{token.ErrExpired, token.ErrInvalidSignature, token.ErrMalformed} {
		mw := middleware.Authenticator(mockVerifier{err: verifyErr})

		rec := callWithCookie(t, mw, middleware.AccessTokenCookie, "some-token")

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%v: expected 401, got %d", verifyErr, rec.Code)
		}
	}
}

// TestAuthenticator_ValidToken verifies that a valid token results in a 200
// response with the claims injected into the request context.
func TestAuthenticator_ValidToken(t *testing.T) {
	verifier := mockVerifier{claims: &token.Claims{
		AccountID: "acct-1",
		Username:  "jdoe",
		Role:      "alumni",
	}}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := utils.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "claims not in context", http.StatusInternalServerError)
			return
		}
		if claims.AccountID != "acct-1" || claims.Role != "alumni" {
			http.Error(w, "wrong claims in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Authenticator(verifier)(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "valid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

// requireRoleRecorder runs RequireRole over a request that already carries
// claims with the given role.
func requireRoleRecorder(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireRole(allowed...)(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if role != "" {
		req = req.WithContext(utils.WithClaims(req.Context(), utils.SessionClaims{
			AccountID: "acct-1",
			Username:  "jdoe",
			Role:      role,
		}))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestRequireRole_InsufficientRole verifies an alumni token is denied on an
// admin-only operation with 403.
func TestRequireRole_InsufficientRole(t *testing.T) {
	rec := requireRoleRecorder(t, "alumni", "admin")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

// TestRequireRole_NoHierarchy verifies admin is not implicitly allowed where
// only alumni is: the role set is closed with no hierarchy.
func TestRequireRole_NoHierarchy(t *testing.T) {
	rec := requireRoleRecorder(t, "admin", "alumni")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for admin on alumni-only route, got %d", rec.Code)
	}
}

// TestRequireRole_AllowedRole verifies a matching role passes through.
func TestRequireRole_AllowedRole(t *testing.T) {
	rec := requireRoleRecorder(t, "partner", "partner", "admin")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

// TestRequireRole_MissingClaims verifies that RequireRole without a preceding
// Authenticator rejects with 401, not 403.
func TestRequireRole_MissingClaims(t *testing.T) {
	rec := requireRoleRecorder(t, "", "admin")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestRateLimit verifies that requests over the per-IP burst are rejected
// with 429 while a different IP is unaffected.
func TestRateLimit(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 2)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RateLimit(limiter)(inner)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := do("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", code)
	}
	if code := do("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request: expected 429, got %d", code)
	}
	if code := do("10.0.0.2"); code != http.StatusOK {
		t.Errorf("different IP: expected 200, got %d", code)
	}
}

// TestRateLimitProxiedClient verifies that a client behind proxies is bucketed
// by the first X-Forwarded-For hop, so varying the proxy tail cannot rotate
// buckets.
func TestRateLimitProxiedClient(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 2)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RateLimit(limiter)(inner)

	do := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("10.0.0.3, 172.16.0.1"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := do("10.0.0.3, 172.16.0.2"); code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", code)
	}
	if code := do("10.0.0.3, 172.16.0.3"); code != http.StatusTooManyRequests {
		t.Errorf("rotated proxy tail: expected 429, got %d", code)
	}
	if code := do("10.0.0.4, 172.16.0.1"); code != http.StatusOK {
		t.Errorf("different client: expected 200, got %d", code)
	}
}
