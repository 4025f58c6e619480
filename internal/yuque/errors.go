package yuque

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the configured API token is invalid
var ErrInvalidToken = errors.New("invalid or expired Yuque token")

// ServerError represents a 5xx error from the Yuque API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Yuque server error: HTTP %d", e.StatusCode)
}

// APIError represents a non-2xx, non-5xx response from the Yuque API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yuque API error: HTTP %d: %s", e.StatusCode, e.Body)
}

// statusOf extracts the HTTP status carried by an APIError, or 0.
func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
