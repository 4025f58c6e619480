package weread

import (
	"errors"
	"fmt"
)

// ErrSessionExpired indicates the reading session cookie is no longer valid
// and a refresh attempt did not help
var ErrSessionExpired = errors.New("weread session expired, log in to weread.qq.com again")

// ServerError represents a 5xx error from the WeRead API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("WeRead server error: HTTP %d", e.StatusCode)
}
