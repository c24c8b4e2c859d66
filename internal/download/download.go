package download

import (
	"sync"

	"github.com/ytget/night-downloader/internal/model"
)

// Download is the handle of one started download.
type Download struct {
	ID      string
	Request model.DownloadRequest

	events chan model.Event

	// sendMu orders deliveries; stateMu guards task so readers never wait
	// on a blocked send.
	sendMu  sync.Mutex
	done    bool
	stateMu sync.Mutex
	task    *model.DownloadTask
}

func newDownload(id string, req model.DownloadRequest) *Download {
	return &Download{
		ID:      id,
		Request: req,
		events:  make(chan model.Event),
		task:    model.NewDownloadTask(id, req),
	}
}

// Events returns the event stream: zero or more progress events followed by
// exactly one outcome, after which the channel is closed. The channel is
// unbuffered and must be drained.
func (d *Download) Events() <-chan model.Event {
	return d.events
}

// Task returns a snapshot of the download state.
func (d *Download) Task() *model.DownloadTask {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	snapshot := *d.task
	return &snapshot
}

// SetTitle records the video title shown by GetDisplayTitle.
func (d *Download) SetTitle(title string) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	d.task.Title = title
}

func (d *Download) setStatus(status model.TaskStatus) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	d.task.Status = status
}

// publish delivers ev to the consumer. It returns false once the outcome
// has been delivered.
func (d *Download) publish(ev model.Event) bool {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	if d.done {
		return false
	}

	d.stateMu.Lock()
	d.task.Apply(ev)
	d.stateMu.Unlock()

	d.events <- ev

	if ev.Kind == model.EventOutcome {
		d.done = true
		close(d.events)
	}
	return true
}
