package sejm

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid sejm client configuration")
	// ErrNotStructured indicates a JSON value was expected but the response was binary
	ErrNotStructured = errors.New("response is not JSON")
	// ErrInvalidJSON indicates the server declared JSON but sent something else
	ErrInvalidJSON = errors.New("response declared JSON but is not valid JSON")
)

// APIError represents a non-2xx answer from the Sejm API
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("sejm API error: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsNotFound reports whether the resource does not exist (yet)
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError reports whether the API failed on its side
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}
