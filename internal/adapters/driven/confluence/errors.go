package confluence

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-success response from the page store.
// The raw body is retained for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
	URL        string
	Identity   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("confluence: API error %d as %s (URL: %s): %s", e.StatusCode, e.Identity, e.URL, e.Body)
}

// AccessError records a failed identity-fallback sequence: the primary
// attempt and the secondary attempt that also failed. The primary
// error is the surfaced one.
type AccessError struct {
	Primary   *APIError
	Secondary *APIError
}

func (e *AccessError) Error() string {
	return e.Primary.Error()
}

// Unwrap exposes the primary error for errors.As/Is chains.
func (e *AccessError) Unwrap() error {
	return e.Primary
}

// IsNotFound checks if the error indicates a resource was not found
// under every identity tried.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
