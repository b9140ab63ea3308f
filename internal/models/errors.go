// Package models defines typed errors for better error handling and context.
package models

import "fmt"

// NotPubliclyReadableError is returned when an export request was redirected
// to a login page, meaning the document is not shared with "anyone with the link".
type NotPubliclyReadableError struct {
	Source string
	Err    error
}

func (e *NotPubliclyReadableError) Error() string {
	return fmt.Sprintf("document %s is not publicly readable (share it with anyone who has the link, or supply credentials): %v", e.Source, e.Err)
}

func (e *NotPubliclyReadableError) Unwrap() error { return e.Err }

// TimeoutError represents a timeout error
type TimeoutError struct {
	Operation string
	Timeout   string
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s after %s: %v", e.Operation, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// InvalidSourceError is returned for arguments that are neither a Google Docs
// URL, a .gdoc file nor a local HTML export.
type InvalidSourceError struct {
	Source string
	Err    error
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source %s: %v", e.Source, e.Err)
}

func (e *InvalidSourceError) Unwrap() error { return e.Err }

// HTTPError represents an HTTP-related error
type HTTPError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %v", e.StatusCode, e.URL, e.Err)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// ParseError reports a tokenizer failure. Offset is the number of markup bytes
// consumed before the failure.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markup parse failed at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ContentExtractionError represents an error during content extraction
type ContentExtractionError struct {
	Step string
	Err  error
}

func (e *ContentExtractionError) Error() string {
	return fmt.Sprintf("content extraction failed at %s: %v", e.Step, e.Err)
}

func (e *ContentExtractionError) Unwrap() error { return e.Err }
