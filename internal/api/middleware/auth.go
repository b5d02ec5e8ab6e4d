// Package middleware contains HTTP middleware for the API layer.
// AuthMiddleware reads Authorization: Bearer <token>, validates it, and
// injects the client identity into context.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/y149604146/qwen-agent-scheduler/internal/api/ctxkeys"
	pkgauth "github.com/y149604146/qwen-agent-scheduler/pkg/auth"
)

// AuthMiddleware validates the Bearer JWT token and injects claims into context.
// Used on all /api/v1/* routes; /health and /auth/token stay public.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractBearerToken(r)
		if tokenString == "" {
			writeUnauthorized(w, "missing or invalid Authorization header")
			return
		}

		claims, err := pkgauth.ParseJWT(tokenString)
		if err != nil {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := ctxkeys.WithValue(r.Context(), ctxkeys.ClientID, claims.ClientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns empty string if the header is missing, uses the wrong scheme, or
// carries an empty token.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// writeUnauthorized writes a 401 JSON response in the same format as
// writeError in the handlers package.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
