package download

import (
	"context"

	"github.com/ytget/night-downloader/internal/model"
)

// Transfer performs the byte transfer for a request. It calls onProgress
// from its own goroutine, in the order the transfer reports progress, and
// returns once the transfer has finished or failed.
type Transfer interface {
	Fetch(ctx context.Context, req model.DownloadRequest, onProgress func(model.RawProgress)) error
}

// Downloader defines the interface for the download service.
type Downloader interface {
	// StartDownload validates req and starts it in the background. It fails
	// synchronously with *model.SelectionError, model.ErrInvalidURL or
	// ErrDownloadInProgress.
	StartDownload(req model.DownloadRequest) (*Download, error)

	// Active returns a snapshot of the in-flight download, if any.
	Active() (*model.DownloadTask, bool)

	// SetUpdateCallback registers a callback that receives a task snapshot
	// after every event.
	SetUpdateCallback(callback func(*model.DownloadTask))
}
