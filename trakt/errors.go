package trakt

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized indicates the client id was rejected
var ErrUnauthorized = errors.New("unauthorized: invalid Trakt client id")

// APIError represents a non-2xx Trakt response
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("trakt API error: status %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is match ErrUnauthorized
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
