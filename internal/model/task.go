package model

import (
	"strings"
	"time"
)

// DownloadTask is the observable state of one download attempt.
type DownloadTask struct {
	ID         string
	URL        string
	Selector   string
	Status     TaskStatus
	Progress   ProgressEvent
	Title      string    // video title, if known
	Message    string    // outcome message once finished
	LastError  string    // failure reason if any
	StartedAt  time.Time // when the task was accepted
	FinishedAt time.Time // when the outcome was produced
}

// NewDownloadTask creates a pending task for the request.
func NewDownloadTask(id string, req DownloadRequest) *DownloadTask {
	return &DownloadTask{
		ID:        id,
		URL:       req.URL,
		Selector:  req.FormatSelector,
		Status:    TaskStatusPending,
		Progress:  ProgressEvent{ETASec: -1},
		StartedAt: time.Now(),
	}
}

// Apply folds an event into the task state.
func (dt *DownloadTask) Apply(ev Event) {
	switch ev.Kind {
	case EventProgress:
		dt.Status = TaskStatusDownloading
		dt.Progress = ev.Progress
	case EventOutcome:
		dt.Message = ev.Outcome.Message
		if ev.Outcome.Success {
			dt.Status = TaskStatusCompleted
			dt.Progress.Percent = 100
			dt.Progress.ETASec = -1
		} else {
			dt.Status = TaskStatusError
			dt.LastError = ev.Outcome.Message
		}
		dt.FinishedAt = time.Now()
	}
}

// GetETAString returns the ETA of the latest progress event, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	return dt.Progress.GetETAString()
}

// GetDisplayTitle returns the title if known, the URL otherwise
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}
	return dt.URL
}
