package download

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
)

// ErrDownloadInProgress is returned when a download is started while
// another one has not produced its outcome yet.
var ErrDownloadInProgress = errors.New("a download is already in progress")

// Service runs downloads one at a time.
type Service struct {
	transfer Transfer
	logPath  string // empty disables the event log
	logger   *slog.Logger

	mu       sync.Mutex
	active   *Download
	onUpdate func(*model.DownloadTask) // callback for UI updates
}

// Option configures a Service.
type Option func(*Service)

// WithLogPath enables the per-download text log at path.
func WithLogPath(path string) Option {
	return func(s *Service) {
		s.logPath = path
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new download service
func NewService(transfer Transfer, opts ...Option) *Service {
	s := &Service{transfer: transfer}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

// SetUpdateCallback sets a callback that receives a task snapshot after
// every event. It runs on the download goroutine.
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// SetLogPath changes the event log location for later downloads.
func (s *Service) SetLogPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logPath = path
}

// StartDownload validates req and starts the transfer on a new goroutine.
// Rejections happen before any background work or log write.
func (s *Service) StartDownload(req model.DownloadRequest) (*Download, error) {
	req.URL = strings.TrimSpace(req.URL)
	req.FormatSelector = strings.TrimSpace(req.FormatSelector)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateURL(req.URL); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, ErrDownloadInProgress
	}
	d := newDownload(generateTaskID(), req)
	s.active = d
	logPath := s.logPath
	s.mu.Unlock()

	s.logger.Info("download started", "task", d.ID, "url", req.URL, "selector", req.FormatSelector, "merged", req.IsMerged())
	go s.run(d, logPath)
	return d, nil
}

// Active returns a snapshot of the in-flight download.
func (s *Service) Active() (*model.DownloadTask, bool) {
	s.mu.Lock()
	d := s.active
	s.mu.Unlock()

	if d == nil {
		return nil, false
	}
	return d.Task(), true
}

// run drives one download from start to outcome.
func (s *Service) run(d *Download, logPath string) {
	logger := s.logger.With("task", d.ID)

	var evLog *eventLog
	if logPath != "" {
		l, err := openEventLog(logPath)
		if err != nil {
			logger.Warn("download log unavailable", "path", logPath, "error", err)
		}
		evLog = l
	}
	defer func() {
		if err := evLog.Close(); err != nil {
			logger.Warn("failed to close download log", "error", err)
		}
	}()

	d.setStatus(model.TaskStatusStarting)
	s.notifyUpdate(d)

	var progressMu sync.Mutex
	tracker := newStageTracker(d.Request)

	err := s.transfer.Fetch(context.Background(), d.Request, func(raw model.RawProgress) {
		progressMu.Lock()
		defer progressMu.Unlock()

		ev, err := model.ParseProgress(raw)
		if err != nil {
			if errors.Is(err, model.ErrProgressIgnored) {
				return
			}
			logger.Warn("skipping malformed progress", "error", err)
			s.bestEffort(logger, evLog.warning(err.Error()))
			return
		}

		ev.Percent = tracker.overall(raw.Filename, ev.Percent)
		s.bestEffort(logger, evLog.progress(ev.String()))
		if d.publish(model.ProgressUpdate(ev)) {
			logger.Debug("progress", "percent", ev.Percent, "eta", ev.ETASec, "speed", ev.Speed)
			s.notifyUpdate(d)
		}
	})

	// Late callbacks must not interleave with the outcome.
	progressMu.Lock()
	defer progressMu.Unlock()

	var outcome model.DownloadOutcome
	if err != nil {
		dlErr := &model.DownloadError{URL: d.Request.URL, Selector: d.Request.FormatSelector, Err: err}
		outcome = model.Failure(dlErr)
		logger.Error("download failed", "error", err)
	} else {
		outcome = model.Success(model.SuccessMessage)
		logger.Info("download completed")
	}
	s.bestEffort(logger, evLog.outcome(outcome.Success, outcome.Message))

	s.release(d)
	d.publish(model.OutcomeEvent(outcome))
	s.notifyUpdate(d)
}

// release frees the active slot so the outcome's consumer can start the
// next download right away.
func (s *Service) release(d *Download) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == d {
		s.active = nil
	}
}

func (s *Service) bestEffort(logger *slog.Logger, err error) {
	if err != nil {
		logger.Warn("download log write failed", "error", err)
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(d *Download) {
	s.mu.Lock()
	cb := s.onUpdate
	s.mu.Unlock()

	if cb != nil {
		cb(d.Task())
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return "task-" + uuid.NewString()
}
