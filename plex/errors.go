package plex

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the Plex client.
var (
	// ErrInvalidConfig indicates a missing URL or token.
	ErrInvalidConfig = errors.New("invalid plex configuration")

	// ErrUnauthorized indicates the token was rejected.
	ErrUnauthorized = errors.New("unauthorized: invalid Plex token")

	// ErrInvalidResponse indicates the server returned an unexpected response format.
	ErrInvalidResponse = errors.New("invalid response from Plex")

	// ErrImageNotFound indicates the entry has no artwork of the requested kind.
	ErrImageNotFound = errors.New("plex image not found")

	// ErrInvalidImage indicates a malformed rating key or image kind.
	ErrInvalidImage = errors.New("invalid plex image request")
)

// APIError represents a non-2xx Plex response
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("plex API error: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match ErrUnauthorized
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
