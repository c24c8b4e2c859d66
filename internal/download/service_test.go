package download

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
)

const testURL = "https://www.youtube.com/watch?v=test"

// scriptedTransfer replays raw progress payloads and then returns err.
type scriptedTransfer struct {
	mu       sync.Mutex
	steps    []model.RawProgress
	err      error
	calls    int
	requests []model.DownloadRequest
	callback func(model.RawProgress)
	release  chan struct{} // if set, Fetch waits on it before returning
}

func (f *scriptedTransfer) Fetch(ctx context.Context, req model.DownloadRequest, onProgress func(model.RawProgress)) error {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.callback = onProgress
	f.mu.Unlock()

	for _, step := range f.steps {
		onProgress(step)
	}
	if f.release != nil {
		<-f.release
	}
	return f.err
}

func (f *scriptedTransfer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pct(v float64) *float64 { return &v }

func downloading(percent float64) model.RawProgress {
	return model.RawProgress{Status: model.RawStatusDownloading, Percent: pct(percent)}
}

func newTestService(tr Transfer, opts ...Option) *Service {
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return NewService(tr, opts...)
}

func collect(t *testing.T, d *Download) []model.Event {
	t.Helper()
	var events []model.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-d.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("event stream did not close, got %d events", len(events))
			return nil
		}
	}
}

// assertStream checks the stream shape: progress events with non-decreasing
// percent, then exactly one outcome as the last element.
func assertStream(t *testing.T, events []model.Event) model.DownloadOutcome {
	t.Helper()
	require.NotEmpty(t, events)

	last := -1.0
	for i, ev := range events[:len(events)-1] {
		require.Equal(t, model.EventProgress, ev.Kind, "event %d", i)
		assert.GreaterOrEqual(t, ev.Progress.Percent, last, "event %d", i)
		last = ev.Progress.Percent
	}

	final := events[len(events)-1]
	require.Equal(t, model.EventOutcome, final.Kind)
	return final.Outcome
}

func TestStartDownload_Success(t *testing.T) {
	tr := &scriptedTransfer{steps: []model.RawProgress{downloading(0), downloading(12.5), downloading(60), downloading(100)}}
	svc := newTestService(tr)

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "18"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.ID, "task-"))

	events := collect(t, d)
	outcome := assertStream(t, events)

	assert.Len(t, events, 5)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Download completed successfully!", outcome.Message)
	assert.Equal(t, 1, tr.callCount())
	assert.Equal(t, "18", tr.requests[0].FormatSelector)

	task := d.Task()
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.Equal(t, 100.0, task.Progress.Percent)
	assert.Equal(t, model.SuccessMessage, task.Message)
}

func TestStartDownload_ProgressTranslation(t *testing.T) {
	speed, eta := 1048576.0, 30.0
	total := int64(500000000)
	tr := &scriptedTransfer{steps: []model.RawProgress{{
		Status:     model.RawStatusDownloading,
		Percent:    pct(42.7),
		Speed:      &speed,
		ETASec:     &eta,
		TotalBytes: &total,
	}}}
	svc := newTestService(tr)

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "22"})
	require.NoError(t, err)

	events := collect(t, d)
	require.Len(t, events, 2)
	p := events[0].Progress
	assert.InDelta(t, 42.7, p.Percent, 1e-9)
	assert.Equal(t, 1048576.0, p.Speed)
	assert.Equal(t, 30, p.ETASec)
	assert.Equal(t, total, p.TotalBytes)
}

func TestStartDownload_FailureMidDownload(t *testing.T) {
	cause := errors.New("HTTP Error 403: Forbidden")
	tr := &scriptedTransfer{steps: []model.RawProgress{downloading(5), downloading(20)}, err: cause}
	svc := newTestService(tr)

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "137+140"})
	require.NoError(t, err)

	events := collect(t, d)
	outcome := assertStream(t, events)
	assert.Len(t, events, 3)
	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.Message)
	assert.Contains(t, outcome.Message, "403")

	var dlErr *model.DownloadError
	require.ErrorAs(t, outcome.Err, &dlErr)
	assert.Equal(t, "137+140", dlErr.Selector)
	assert.ErrorIs(t, outcome.Err, cause)

	task := d.Task()
	assert.Equal(t, model.TaskStatusError, task.Status)
	assert.Equal(t, outcome.Message, task.LastError)
}

func TestStartDownload_LateCallbacksDropped(t *testing.T) {
	tr := &scriptedTransfer{steps: []model.RawProgress{downloading(50)}}
	svc := newTestService(tr)

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "18"})
	require.NoError(t, err)
	events := collect(t, d)
	require.Len(t, events, 2)

	tr.mu.Lock()
	cb := tr.callback
	tr.mu.Unlock()
	require.NotNil(t, cb)

	assert.NotPanics(t, func() { cb(downloading(75)) })
	_, open := <-d.Events()
	assert.False(t, open, "no events after the outcome")
}

func TestStartDownload_SelectionError(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), DefaultLogName)
	tr := &scriptedTransfer{}
	svc := newTestService(tr, WithLogPath(logPath))

	for _, selector := range []string{"", "137+", "+140", "  "} {
		d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: selector})
		assert.Nil(t, d)

		var selErr *model.SelectionError
		assert.ErrorAs(t, err, &selErr, "selector %q", selector)
	}

	_, missingAudio := model.CombineSelector("137", "")
	var selErr *model.SelectionError
	assert.ErrorAs(t, missingAudio, &selErr)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, tr.callCount(), "no background work on rejected requests")
	_, statErr := os.Stat(logPath)
	assert.True(t, os.IsNotExist(statErr), "no log writes on rejected requests")

	_, active := svc.Active()
	assert.False(t, active)
}

func TestStartDownload_InvalidURL(t *testing.T) {
	tr := &scriptedTransfer{}
	svc := newTestService(tr)

	_, err := svc.StartDownload(model.DownloadRequest{URL: "not-a-url", FormatSelector: "18"})
	assert.ErrorIs(t, err, model.ErrInvalidURL)
	assert.Zero(t, tr.callCount())
}

func TestStartDownload_SingleActive(t *testing.T) {
	tr := &scriptedTransfer{steps: []model.RawProgress{downloading(10)}, release: make(chan struct{})}
	svc := newTestService(tr)

	var updates []model.TaskStatus
	var updatesMu sync.Mutex
	svc.SetUpdateCallback(func(task *model.DownloadTask) {
		updatesMu.Lock()
		updates = append(updates, task.Status)
		updatesMu.Unlock()
	})

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "18"})
	require.NoError(t, err)

	// first progress event proves the transfer is running
	ev := <-d.Events()
	require.Equal(t, model.EventProgress, ev.Kind)

	task, active := svc.Active()
	require.True(t, active)
	assert.Equal(t, d.ID, task.ID)
	assert.Equal(t, model.TaskStatusDownloading, task.Status)

	_, err = svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "22"})
	assert.ErrorIs(t, err, ErrDownloadInProgress)

	close(tr.release)
	rest := collect(t, d)
	require.Len(t, rest, 1)
	assert.True(t, rest[0].Outcome.Success)

	_, active = svc.Active()
	assert.False(t, active)

	tr2 := &scriptedTransfer{}
	svc.transfer = tr2
	d2, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "22"})
	require.NoError(t, err)
	collect(t, d2)
	assert.NotEqual(t, d.ID, d2.ID)

	seen := func(status model.TaskStatus) bool {
		updatesMu.Lock()
		defer updatesMu.Unlock()
		for _, s := range updates {
			if s == status {
				return true
			}
		}
		return false
	}
	assert.True(t, seen(model.TaskStatusStarting))
	assert.True(t, seen(model.TaskStatusDownloading))
	assert.Eventually(t, func() bool { return seen(model.TaskStatusCompleted) }, time.Second, 10*time.Millisecond)
}

func TestStartDownload_MalformedProgressSkipped(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), DefaultLogName)
	tr := &scriptedTransfer{steps: []model.RawProgress{
		downloading(10),
		{Status: model.RawStatusDownloading},
		{Status: model.RawStatusDownloading, Percent: pct(math.NaN())},
		{Status: model.RawStatusFinished, Percent: pct(100)},
		downloading(30),
	}}
	svc := newTestService(tr, WithLogPath(logPath))

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "18"})
	require.NoError(t, err)

	events := collect(t, d)
	outcome := assertStream(t, events)
	assert.True(t, outcome.Success, "malformed payloads are not terminal")
	require.Len(t, events, 3)
	assert.Equal(t, 10.0, events[0].Progress.Percent)
	assert.Equal(t, 30.0, events[1].Progress.Percent)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "warning: "))
}

func TestStartDownload_EventLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), DefaultLogName)
	require.NoError(t, os.WriteFile(logPath, []byte("stale line from a previous run\n"), 0644))

	tr := &scriptedTransfer{steps: []model.RawProgress{downloading(25), downloading(75)}, err: errors.New("connection reset")}
	svc := newTestService(tr, WithLogPath(logPath))

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "18"})
	require.NoError(t, err)
	collect(t, d)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, LogHeader, lines[0])
	assert.Equal(t, LogSeparator, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "progress: 25.0%"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "progress: 75.0%"), lines[3])
	assert.Equal(t, "failure: An error occurred: connection reset", lines[4])
	assert.NotContains(t, string(data), "stale line")
}

func TestStartDownload_LogFailureDoesNotAbort(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "missing", "dir", DefaultLogName)
	tr := &scriptedTransfer{steps: []model.RawProgress{downloading(50)}}
	svc := newTestService(tr, WithLogPath(logPath))

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "18"})
	require.NoError(t, err)

	outcome := assertStream(t, collect(t, d))
	assert.True(t, outcome.Success)
}

func TestStartDownload_MergedStagesAreMonotone(t *testing.T) {
	step := func(file string, percent float64) model.RawProgress {
		raw := downloading(percent)
		raw.Filename = file
		return raw
	}
	tr := &scriptedTransfer{steps: []model.RawProgress{
		step("clip.f137.mp4", 0),
		step("clip.f137.mp4", 50),
		step("clip.f137.mp4", 100),
		step("clip.f140.m4a", 0),
		step("clip.f140.m4a", 50),
		step("clip.f140.m4a", 100),
	}}
	svc := newTestService(tr)

	d, err := svc.StartDownload(model.DownloadRequest{URL: testURL, FormatSelector: "137+140"})
	require.NoError(t, err)

	events := collect(t, d)
	assertStream(t, events)

	var got []float64
	for _, ev := range events[:len(events)-1] {
		got = append(got, ev.Progress.Percent)
	}
	assert.Equal(t, []float64{0, 25, 50, 50, 75, 100}, got)
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	if !strings.HasPrefix(id1, "task-") {
		t.Errorf("Expected ID to start with 'task-', got: %s", id1)
	}

	// task- + 36 chars for UUID
	if len(id1) != len("task-")+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len("task-")+36, len(id1), id1)
	}
}
