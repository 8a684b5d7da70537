package jellyfin

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid jellyfin configuration")
	// ErrUnauthorized indicates the token was rejected
	ErrUnauthorized = errors.New("unauthorized: invalid Jellyfin token")
)

// APIError represents a non-2xx Jellyfin response
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("jellyfin API error: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match ErrUnauthorized
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
