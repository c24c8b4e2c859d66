package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL indicates the input is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrMalformedProgress indicates a progress payload without usable fields.
	ErrMalformedProgress = errors.New("malformed progress")

	// ErrProgressIgnored indicates a progress payload that does not describe
	// an active transfer (finished file, post-processing).
	ErrProgressIgnored = errors.New("progress ignored")
)

// ExtractionError reports a failed metadata fetch.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to fetch video info for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// DownloadError reports a transfer that failed after it started.
type DownloadError struct {
	URL      string
	Selector string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("An error occurred: %v", e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// SelectionError reports a download request without a valid format
// selection. It is returned before any work starts.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return "invalid format selection: " + e.Reason
}
