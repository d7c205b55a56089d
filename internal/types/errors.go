package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoNextPage    = errors.New("no next listing page")
	ErrSessionClosed = errors.New("browser session is closed")
	ErrEmptyDocument = errors.New("empty document")
	ErrNotFound      = errors.New("element not found")
)

// FetchError wraps errors that occur while loading a detail page.
type FetchError struct {
	URL       string
	Err       error
	Retryable bool
}

// NewFetchError wraps err for url. A closed session is the only failure a
// retry cannot get past.
func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Err: err, Retryable: !errors.Is(err, ErrSessionClosed)}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// NavigationError wraps failures of a browser interaction step
// (search filter, pagination click, login).
type NavigationError struct {
	URL  string
	Step string
	Err  error
}

func (e *NavigationError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("navigation error at step %q (%s): %v", e.Step, e.URL, e.Err)
	}
	return fmt.Sprintf("navigation error at step %q: %v", e.Step, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
