// HTTP handlers for reading the audit trail.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/audit"
)

// AuditHandler serves read-only views over the audit log.
type AuditHandler struct {
	service *audit.Service
}

// NewAuditHandler creates a new AuditHandler instance.
func NewAuditHandler(service *audit.Service) *AuditHandler {
	return &AuditHandler{service: service}
}

// AuditEntryResponse is one audit record on the wire.
type AuditEntryResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	MethodName string `json:"method_name"`
	Success    bool   `json:"success"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// ListAuditResponse is the response body for audit listings.
type ListAuditResponse struct {
	Data []AuditEntryResponse `json:"data"`
}

// ListRecent handles GET /api/v1/audit.
func (h *AuditHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListRecent(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read audit log")
		return
	}
	writeJSON(w, http.StatusOK, toAuditResponse(entries))
}

// ListByMethod handles GET /api/v1/methods/{name}/audit.
func (h *AuditHandler) ListByMethod(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	entries, err := h.service.ListByMethod(r.Context(), name, parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read audit log")
		return
	}
	writeJSON(w, http.StatusOK, toAuditResponse(entries))
}

func toAuditResponse(entries []*audit.Entry) ListAuditResponse {
	data := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		data[i] = AuditEntryResponse{
			ID:         e.ID,
			Action:     e.Action,
			MethodName: e.MethodName,
			Success:    e.Success,
			ErrorKind:  e.ErrorKind,
			Detail:     e.Detail,
			DurationMS: e.DurationMS,
			CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return ListAuditResponse{Data: data}
}
