package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStartURL is returned by Crawl when the start URL has no usable host.
	ErrInvalidStartURL = errors.New("invalid start URL")

	// ErrInvalidLanguage is returned when an ignored language code is not a
	// valid BCP 47 tag.
	ErrInvalidLanguage = errors.New("invalid language code")

	// ErrPageFault wraps a panic recovered while processing a fetched page.
	ErrPageFault = errors.New("page processing fault")
)

// StatusError is returned by a Fetcher when the server answers with any
// status other than 200 OK.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code received.
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}
