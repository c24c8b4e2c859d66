package download

import (
	"github.com/ytget/night-downloader/internal/model"
)

// Handlers are the three callback channels a presentation layer listens on.
// Nil handlers are skipped.
type Handlers struct {
	OnProgress func(model.ProgressEvent)
	OnSuccess  func(message string)
	OnError    func(reason string)
}

// Dispatch drains events into h until the stream closes and returns the
// outcome. A stream that closes without an outcome yields a failure.
func Dispatch(events <-chan model.Event, h Handlers) model.DownloadOutcome {
	outcome := model.Failure(nil)
	for ev := range events {
		switch ev.Kind {
		case model.EventProgress:
			if h.OnProgress != nil {
				h.OnProgress(ev.Progress)
			}
		case model.EventOutcome:
			outcome = ev.Outcome
			if outcome.Success {
				if h.OnSuccess != nil {
					h.OnSuccess(outcome.Message)
				}
			} else if h.OnError != nil {
				h.OnError(outcome.Message)
			}
		}
	}
	return outcome
}
