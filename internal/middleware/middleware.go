package middleware

import (
	"log"
	"net/http"

	"github.com/AlumniConnect/AC-Backend/internal/token"
	"github.com/AlumniConnect/AC-Backend/internal/utils"
)

// AccessTokenCookie is the cookie carrying the short-lived access token.
const AccessTokenCookie = "access-token"

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Authenticator resolves the access-token cookie into verified claims on the
// request context. Missing, malformed, expired, and bad-signature tokens all
// collapse to a generic 401; the specific kind is logged for diagnosis.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookie)
			if err != nil {
				log.Printf("auth: missing access token %s %s", r.Method, r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(cookie.Value)
			if err != nil {
				log.Printf("auth: %v %s %s", err, r.Method, r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := utils.WithClaims(r.Context(), utils.SessionClaims{
				AccountID: claims.AccountID,
				Username:  claims.Username,
				Role:      claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose role is outside the
// allowed set. Roles are a closed set with no hierarchy: admin is not
// implicitly allowed where alumni is.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := utils.GetClaimsFromContext(r.Context())
			if !ok {
				log.Printf("auth: missing claims in context %s %s", r.Method, r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if _, ok := allowedSet[claims.Role]; !ok {
				log.Printf("auth: insufficient role %q %s %s", claims.Role, r.Method, r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

var allowedOrigins = map[string]struct{}{
	"http://localhost:5173":             {},
	"http://localhost:5174":             {},
	"https://portal.alumniconnect.dev":  {},
	"https://staging.alumniconnect.dev": {},
	"https://alumniconnect.github.io":   {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it's on our allow-list
		if _, ok := allowedOrigins[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
