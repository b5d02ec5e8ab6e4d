// HTTP handler for method invocation.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

// InvokeHandler handles POST /api/v1/invoke.
type InvokeHandler struct {
	engine *method.Engine
}

// NewInvokeHandler creates a new InvokeHandler instance.
func NewInvokeHandler(engine *method.Engine) *InvokeHandler {
	return &InvokeHandler{engine: engine}
}

// InvokeRequest is the request body for POST /api/v1/invoke.
type InvokeRequest struct {
	Method         string         `json:"method"`
	Arguments      map[string]any `json:"arguments"`
	TimeoutSeconds float64        `json:"timeout_seconds,omitempty"`
}

// InvokeResponse is the response body for POST /api/v1/invoke. It mirrors the
// engine result; the HTTP status is 200 even for failed invocations, because
// the invocation itself reached a terminal state. Only transport-level
// problems (bad JSON, missing method name) use error codes.
type InvokeResponse struct {
	Success      bool     `json:"success"`
	Value        any      `json:"value,omitempty"`
	ErrorKind    string   `json:"error_kind,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	DurationMS   int64    `json:"duration_ms"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Invoke handles POST /api/v1/invoke.
func (h *InvokeHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, "method is required")
		return
	}
	if req.TimeoutSeconds < 0 {
		writeError(w, http.StatusBadRequest, "timeout_seconds must be positive")
		return
	}

	result := h.engine.Invoke(r.Context(), method.Request{
		MethodName: req.Method,
		Arguments:  req.Arguments,
		Timeout:    time.Duration(req.TimeoutSeconds * float64(time.Second)),
	})

	writeJSON(w, http.StatusOK, InvokeResponse{
		Success:      result.Success,
		Value:        result.Value,
		ErrorKind:    string(result.ErrorKind),
		ErrorMessage: result.ErrorMessage,
		DurationMS:   result.Duration.Milliseconds(),
		Warnings:     result.Warnings,
	})
}
