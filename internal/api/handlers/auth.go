// HTTP handler for the public token endpoint.
// Exchanges API client credentials for a Bearer JWT.
package handlers

import (
	"encoding/json"
	"net/http"

	pkgauth "github.com/y149604146/qwen-agent-scheduler/pkg/auth"
)

// TokenIssuer verifies API client credentials and issues JWTs. The single
// client identity comes from configuration; the secret is kept only as a
// bcrypt hash.
type TokenIssuer struct {
	clientID   string
	secretHash string
}

// NewTokenIssuer creates a TokenIssuer for the configured client. The
// plaintext secret is hashed immediately and discarded. An empty secret
// disables the issuer: every token request is rejected.
func NewTokenIssuer(clientID, clientSecret string) (*TokenIssuer, error) {
	issuer := &TokenIssuer{clientID: clientID}
	if clientSecret == "" {
		return issuer, nil
	}
	hash, err := pkgauth.HashSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	issuer.secretHash = hash
	return issuer, nil
}

// AuthHandler handles POST /auth/token.
type AuthHandler struct {
	issuer *TokenIssuer
}

// NewAuthHandler creates an AuthHandler backed by the given issuer.
func NewAuthHandler(issuer *TokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// TokenRequest is the request body for POST /auth/token.
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse is the response body returned after successful authentication.
type TokenResponse struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
}

// Token handles POST /auth/token.
//
// Response codes:
//   - 200 OK: credentials valid, token issued
//   - 400 Bad Request: invalid JSON or missing fields
//   - 401 Unauthorized: wrong credentials or auth disabled (generic message)
//   - 500 Internal Server Error: token signing failure
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		writeError(w, http.StatusBadRequest, "client_id and client_secret are required")
		return
	}

	if h.issuer.secretHash == "" ||
		req.ClientID != h.issuer.clientID ||
		!pkgauth.VerifySecret(h.issuer.secretHash, req.ClientSecret) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := pkgauth.GenerateJWT(req.ClientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token, ClientID: req.ClientID})
}
