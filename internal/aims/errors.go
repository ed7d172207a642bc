package aims

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates the AIMS connection settings are incomplete.
var ErrNotConfigured = errors.New("AIMS connection is not configured")

// ErrUnauthorized indicates AIMS rejected the credentials or the access token.
var ErrUnauthorized = errors.New("AIMS rejected the credentials")

// ErrRateLimited indicates the AIMS rate limit was exceeded.
var ErrRateLimited = errors.New("AIMS API rate limit exceeded")

// ErrStoreCodeMissing indicates a store has no AIMS store code.
var ErrStoreCodeMissing = errors.New("store has no AIMS store code")

// ServerError represents a 5xx error from the AIMS API.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("AIMS server error: HTTP %d", e.StatusCode)
}

// APIError is any other non-success response. It is not retried.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("AIMS request failed: HTTP %d: %s", e.StatusCode, e.Body)
}

func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}
