package model

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractionError_Unwrap(t *testing.T) {
	cause := errors.New("Video unavailable")
	err := error(&ExtractionError{URL: "https://youtube.com/watch?v=x", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("ExtractionError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Errorf("Expected message to contain cause, got %q", err.Error())
	}
}

func TestDownloadError_Message(t *testing.T) {
	cause := errors.New("HTTP Error 403: Forbidden")
	err := &DownloadError{URL: "u", Selector: "18", Err: cause}

	if err.Error() != "An error occurred: HTTP Error 403: Forbidden" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("DownloadError should unwrap to its cause")
	}
}

func TestFailure(t *testing.T) {
	outcome := Failure(&DownloadError{Err: errors.New("disk full")})
	if !outcome.Failed() || outcome.Message == "" {
		t.Errorf("Expected failed outcome with message, got %+v", outcome)
	}

	empty := Failure(nil)
	if empty.Message == "" {
		t.Error("Failure without error should still carry a message")
	}

	ok := Success(SuccessMessage)
	if ok.Failed() || ok.String() != "Download completed successfully!" {
		t.Errorf("Unexpected success outcome %+v", ok)
	}
}
