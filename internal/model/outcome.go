package model

// SuccessMessage is the message carried by every successful outcome.
const SuccessMessage = "Download completed successfully!"

// DownloadOutcome is the terminal result of one download attempt.
type DownloadOutcome struct {
	Success bool
	Message string
	Err     error // nil on success
}

// Success builds a successful outcome.
func Success(message string) DownloadOutcome {
	return DownloadOutcome{Success: true, Message: message}
}

// Failure builds a failed outcome from the error that ended the attempt.
func Failure(err error) DownloadOutcome {
	reason := "unknown error"
	if err != nil && err.Error() != "" {
		reason = err.Error()
	}
	return DownloadOutcome{Message: reason, Err: err}
}

// Failed reports whether the attempt ended in failure.
func (o DownloadOutcome) Failed() bool {
	return !o.Success
}

// String returns the outcome message.
func (o DownloadOutcome) String() string {
	return o.Message
}

// EventKind distinguishes progress reports from the terminal outcome.
type EventKind int

const (
	EventProgress EventKind = iota
	EventOutcome
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventOutcome:
		return "outcome"
	default:
		return "unknown"
	}
}

// Event is one element of a download's event stream. Only the field
// matching Kind is meaningful.
type Event struct {
	Kind     EventKind
	Progress ProgressEvent
	Outcome  DownloadOutcome
}

// ProgressUpdate wraps a progress report into an Event.
func ProgressUpdate(p ProgressEvent) Event {
	return Event{Kind: EventProgress, Progress: p}
}

// OutcomeEvent wraps the terminal outcome into an Event.
func OutcomeEvent(o DownloadOutcome) Event {
	return Event{Kind: EventOutcome, Outcome: o}
}
