package contentful

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetEntry when no entry matches the id.
var ErrNotFound = errors.New("contentful: entry not found")

// APIError is a non-2xx response from the Content Delivery API.
type APIError struct {
	StatusCode int
	ID         string // e.g. "NotFound", "InvalidQuery", "AccessTokenInvalid"
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("contentful: status %d", e.StatusCode)
	}
	if e.Message == "" {
		return fmt.Sprintf("contentful: status %d %s", e.StatusCode, e.ID)
	}
	return fmt.Sprintf("contentful: status %d %s: %s", e.StatusCode, e.ID, e.Message)
}

// errorEnvelope mirrors Contentful's error response body.
type errorEnvelope struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}
