// Package handlers contains the HTTP handlers for the scheduler API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// parseLimit extracts and caps the limit query param.
func parseLimit(r *http.Request) int {
	limit := defaultAuditLimit
	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		if lim > maxAuditLimit {
			lim = maxAuditLimit
		}
		limit = lim
	}
	return limit
}

// MethodPayload is the wire shape of a method declaration, shared by the
// register, get, list, and validate endpoints.
type MethodPayload struct {
	ID           string                   `json:"id,omitempty"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description"`
	Parameters   []method.ParameterSchema `json:"parameters"`
	ReturnType   string                   `json:"return_type"`
	ModulePath   string                   `json:"module_path"`
	FunctionName string                   `json:"function_name"`
	CreatedAt    string                   `json:"created_at,omitempty"`
	UpdatedAt    string                   `json:"updated_at,omitempty"`
}

// toDeclaration converts the wire payload into a domain declaration.
// Kind aliases (str, int, dict, ...) are normalized here, at the boundary.
func (p MethodPayload) toDeclaration() method.Declaration {
	params := make([]method.ParameterSchema, len(p.Parameters))
	for i, param := range p.Parameters {
		param.Kind = method.NormalizeKind(string(param.Kind))
		params[i] = param
	}
	return method.Declaration{
		Name:        p.Name,
		Description: p.Description,
		Parameters:  params,
		ReturnKind:  method.NormalizeKind(p.ReturnType),
		Locator: method.Locator{
			ModulePath:   p.ModulePath,
			FunctionName: p.FunctionName,
		},
	}
}

func methodPayloadFrom(d *method.Declaration) MethodPayload {
	return MethodPayload{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Parameters:   d.Parameters,
		ReturnType:   string(d.ReturnKind),
		ModulePath:   d.Locator.ModulePath,
		FunctionName: d.Locator.FunctionName,
		CreatedAt:    formatTime(d.CreatedAt),
		UpdatedAt:    formatTime(d.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
