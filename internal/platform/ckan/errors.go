package ckan

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client cannot be built from configuration.
	ErrInvalidConfig = errors.New("invalid ckan client configuration")

	// ErrSessionClosed is returned when an action is sent through a closed session.
	ErrSessionClosed = errors.New("ckan session is closed")
)

// ActionError is a failed action as reported by the backend.
//
// When CKAN answers with its JSON error wrapper, Type holds the "__type" value
// and Detail the remaining error members. A string error member is kept in
// Body. Anything else (proxy error pages, truncated bodies) leaves Detail nil
// and keeps the raw body in Body.
type ActionError struct {
	Action     string
	StatusCode int
	Type       string
	Detail     map[string]any
	Body       string
}

// Error mirrors what the backend said. For unstructured responses this is the
// raw body, so callers that sanitize error text see the original document.
func (e *ActionError) Error() string {
	if e.Detail != nil {
		detail, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Sprintf("%s: %s", e.Action, e.Type)
		}
		if e.Type == "" {
			return fmt.Sprintf("%s: %s", e.Action, detail)
		}
		return fmt.Sprintf("%s: %s: %s", e.Action, e.Type, detail)
	}
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("%s: backend returned HTTP %d", e.Action, e.StatusCode)
}

// Structured reports whether the backend supplied a decoded error mapping.
func (e *ActionError) Structured() bool {
	return e.Detail != nil
}
