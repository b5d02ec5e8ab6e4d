// Shared context helpers for API middleware.
package api

import (
	"context"

	"github.com/y149604146/qwen-agent-scheduler/internal/api/ctxkeys"
)

// WithClientID adds client_id to the request context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ctxkeys.ClientID, clientID)
}

// GetClientID retrieves client_id from context.
func GetClientID(ctx context.Context) (string, error) {
	clientID, ok := ctx.Value(ctxkeys.ClientID).(string)
	if !ok || clientID == "" {
		return "", ErrMissingClientID
	}
	return clientID, nil
}
