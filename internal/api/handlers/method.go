// HTTP handlers for method registration CRUD and offline validation.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

// MethodHandler handles HTTP requests for method declarations.
type MethodHandler struct {
	registrar *method.Registrar
	registry  *method.Registry
}

// NewMethodHandler creates a new MethodHandler instance.
func NewMethodHandler(registrar *method.Registrar, registry *method.Registry) *MethodHandler {
	return &MethodHandler{registrar: registrar, registry: registry}
}

// RegisterResponse is the response body for POST /api/v1/methods.
type RegisterResponse struct {
	Method     MethodPayload           `json:"method"`
	Validation method.ValidationResult `json:"validation"`
}

// ValidateRequest is the request body for POST /api/v1/methods/validate.
type ValidateRequest struct {
	Methods []MethodPayload `json:"methods"`
}

// ValidateResponse is the response body for POST /api/v1/methods/validate.
type ValidateResponse struct {
	Results []method.ValidationResult `json:"results"`
	Valid   bool                      `json:"valid"`
}

// ListMethodsResponse is the response body for GET /api/v1/methods.
type ListMethodsResponse struct {
	Data  []MethodPayload `json:"data"`
	Total int             `json:"total"`
}

// Register handles POST /api/v1/methods.
//
// Response codes:
//   - 201 Created: declaration validated and registered (upsert by name)
//   - 400 Bad Request: invalid JSON
//   - 422 Unprocessable Entity: metadata validation failed; body lists every defect
//   - 500 Internal Server Error: storage failure
func (h *MethodHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req MethodPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, result, err := h.registrar.Register(r.Context(), req.toDeclaration())
	if err != nil {
		if errors.Is(err, method.ErrDeclarationInvalid) {
			writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{
				Results: []method.ValidationResult{result},
				Valid:   false,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register method")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Method:     methodPayloadFrom(stored),
		Validation: result,
	})
}

// Validate handles POST /api/v1/methods/validate. It runs the metadata
// validator only: nothing is persisted, and batch name collisions are
// reported per declaration.
func (h *MethodHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Methods) == 0 {
		writeError(w, http.StatusBadRequest, "methods list is required")
		return
	}

	decls := make([]method.Declaration, len(req.Methods))
	for i, p := range req.Methods {
		decls[i] = p.toDeclaration()
	}

	results := method.ValidateAll(decls)
	allValid := true
	for _, res := range results {
		if !res.Valid {
			allValid = false
			break
		}
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Results: results, Valid: allValid})
}

// List handles GET /api/v1/methods.
func (h *MethodHandler) List(w http.ResponseWriter, r *http.Request) {
	decls := h.registry.List()
	data := make([]MethodPayload, len(decls))
	for i, d := range decls {
		data[i] = methodPayloadFrom(d)
	}
	writeJSON(w, http.StatusOK, ListMethodsResponse{Data: data, Total: len(data)})
}

// Get handles GET /api/v1/methods/{name}.
func (h *MethodHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, err := h.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "method not found")
		return
	}
	writeJSON(w, http.StatusOK, methodPayloadFrom(d))
}

// Delete handles DELETE /api/v1/methods/{name}.
func (h *MethodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.registrar.Remove(r.Context(), name); err != nil {
		if errors.Is(err, method.ErrMethodNotFound) {
			writeError(w, http.StatusNotFound, "method not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove method")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
