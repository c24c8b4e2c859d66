package model

import (
	"fmt"
	"net/url"
	"strings"
)

// SelectorJoiner joins a video and an audio format id into a merged
// selector. This is yt-dlp selection syntax and must not change.
const SelectorJoiner = "+"

// SelectionMode tells how a request's selector is built from the UI
// selection.
type SelectionMode string

const (
	// SelectionMerged downloads a video track and an audio track and muxes them.
	SelectionMerged SelectionMode = "merged"
	// SelectionSingle downloads one already-muxed or single-track stream.
	SelectionSingle SelectionMode = "single"
)

// DownloadRequest describes one download attempt.
type DownloadRequest struct {
	URL            string
	FormatSelector string
}

// NewDownloadRequest builds a request and validates its selector.
func NewDownloadRequest(rawURL, selector string) (DownloadRequest, error) {
	req := DownloadRequest{URL: strings.TrimSpace(rawURL), FormatSelector: strings.TrimSpace(selector)}
	if err := req.Validate(); err != nil {
		return DownloadRequest{}, err
	}
	return req, nil
}

// Validate checks the format selector. It returns a *SelectionError when
// the selector is empty or one of its "+" parts is empty.
func (r DownloadRequest) Validate() error {
	if r.FormatSelector == "" {
		return &SelectionError{Reason: "no format selected"}
	}
	for _, part := range strings.Split(r.FormatSelector, SelectorJoiner) {
		if strings.TrimSpace(part) == "" {
			return &SelectionError{Reason: "empty format id in selector " + r.FormatSelector}
		}
		if strings.ContainsAny(part, " \t\n") {
			return &SelectionError{Reason: "format id contains whitespace: " + part}
		}
	}
	return nil
}

// Tracks returns the format ids the selector asks for.
func (r DownloadRequest) Tracks() []string {
	if r.FormatSelector == "" {
		return nil
	}
	return strings.Split(r.FormatSelector, SelectorJoiner)
}

// IsMerged reports whether the selector asks for separate tracks to be muxed.
func (r DownloadRequest) IsMerged() bool {
	return len(r.Tracks()) > 1
}

// CombineSelector joins a video and an audio format id into "video+audio".
func CombineSelector(videoID, audioID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	audioID = strings.TrimSpace(audioID)
	if videoID == "" {
		return "", &SelectionError{Reason: "no video format selected"}
	}
	if audioID == "" {
		return "", &SelectionError{Reason: "no audio format selected"}
	}
	return videoID + SelectorJoiner + audioID, nil
}

// BuildSelector builds the selector for the given mode. Merged mode needs
// both ids; single mode uses primary only.
func BuildSelector(mode SelectionMode, primary, secondary string) (string, error) {
	switch mode {
	case SelectionMerged:
		return CombineSelector(primary, secondary)
	case SelectionSingle:
		primary = strings.TrimSpace(primary)
		if primary == "" {
			return "", &SelectionError{Reason: "no format selected"}
		}
		return primary, nil
	default:
		return "", &SelectionError{Reason: "unknown selection mode " + string(mode)}
	}
}

// ValidateURL accepts absolute http and https URLs. Errors wrap ErrInvalidURL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL: %w", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL: %w", rawURL, ErrInvalidURL)
	}
	return nil
}
