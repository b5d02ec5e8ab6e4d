// API error definitions.
package api

import "errors"

// ErrMissingClientID is returned when client_id is missing from context.
var ErrMissingClientID = errors.New("missing client_id in context")
