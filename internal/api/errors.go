package api

import (
	"fmt"
	"net/http"
)

// APIError represents an HTTP-level error from the ERCOT API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ercot api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
// Rate-limit responses and server errors are retryable.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// AuthError reports a credential rejection (401/403). Non-retryable: the
// pipeline must abort rather than continue with empty data.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("ercot auth rejected (%d): %s", e.StatusCode, e.Message)
}

// TransientFetchError is returned once the retry budget for a request is
// exhausted. It wraps the last underlying failure; callers may retry the
// whole window or abort.
type TransientFetchError struct {
	Attempts int
	Err      error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("fetch failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body that could not be parsed
// into the expected report envelope. Page-scoped: the caller skips the page
// unless every page of a batch fails.
type MalformedResponseError struct {
	Path string
	Page int
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s page %d: %v", e.Path, e.Page, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
