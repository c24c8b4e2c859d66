package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
)

// Defaults for the yt-dlp adapter
const (
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultProgressInterval = 500 * time.Millisecond
)

// YTDLP runs yt-dlp through go-ytdlp. It serves both the metadata-only
// queries of the extraction client and the transfers of the download
// service.
type YTDLP struct {
	mu               sync.RWMutex
	downloadDir      string
	filenameTemplate string
	progressInterval time.Duration
	logger           *slog.Logger
}

// NewYTDLP creates an adapter writing into downloadDir.
func NewYTDLP(downloadDir string, logger *slog.Logger) *YTDLP {
	return &YTDLP{
		downloadDir:      downloadDir,
		filenameTemplate: DefaultFilenameTemplate,
		progressInterval: DefaultProgressInterval,
		logger:           logging.OrDefault(logger),
	}
}

// SetDownloadDirectory sets the download directory
func (y *YTDLP) SetDownloadDirectory(dir string) {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.downloadDir = dir
}

// SetFilenameTemplate sets the yt-dlp output template; empty resets it.
func (y *YTDLP) SetFilenameTemplate(template string) {
	y.mu.Lock()
	defer y.mu.Unlock()
	if template == "" {
		template = DefaultFilenameTemplate
	}
	y.filenameTemplate = template
}

// SetProgressInterval sets how often yt-dlp reports progress.
func (y *YTDLP) SetProgressInterval(interval time.Duration) {
	y.mu.Lock()
	defer y.mu.Unlock()
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	y.progressInterval = interval
}

// OutputTemplate returns the full output path template.
func (y *YTDLP) OutputTemplate() string {
	y.mu.RLock()
	defer y.mu.RUnlock()
	return filepath.Join(y.downloadDir, y.filenameTemplate)
}

// EnsureInstalled resolves the yt-dlp binary, downloading it when missing.
func EnsureInstalled(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// Probe asks yt-dlp for the metadata of url without downloading anything.
func (y *YTDLP) Probe(ctx context.Context, url string) (*model.RawInfo, error) {
	cmd := ytdlp.New().
		SkipDownload().
		NoPlaylist().
		DumpSingleJSON()

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata query failed: %w", err)
	}
	return ParseInfoJSON([]byte(result.Stdout))
}

// Fetch downloads req, reporting progress through onProgress.
func (y *YTDLP) Fetch(ctx context.Context, req model.DownloadRequest, onProgress func(model.RawProgress)) error {
	y.mu.RLock()
	interval := y.progressInterval
	y.mu.RUnlock()
	output := y.OutputTemplate()

	dl := ytdlp.New().
		Format(req.FormatSelector).
		NoPlaylist().
		ForceOverwrites().
		Output(output)

	dl.ProgressFunc(interval, func(update ytdlp.ProgressUpdate) {
		onProgress(toRawProgress(update, time.Now()))
	})

	y.logger.Debug("running yt-dlp", "url", req.URL, "format", req.FormatSelector, "output", output)
	if _, err := dl.Run(ctx, req.URL); err != nil {
		return fmt.Errorf("yt-dlp download failed: %w", err)
	}
	return nil
}

// ParseInfoJSON decodes the output of `yt-dlp --dump-single-json`.
func ParseInfoJSON(data []byte) (*model.RawInfo, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty metadata output")
	}

	var info model.RawInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	return &info, nil
}

// toRawProgress converts a go-ytdlp update. Percent comes from bytes, or
// from fragments for segmented streams; speed is the average since the
// file started; ETA follows from both.
func toRawProgress(update ytdlp.ProgressUpdate, now time.Time) model.RawProgress {
	raw := model.RawProgress{
		Status:   string(update.Status),
		Filename: update.Filename,
	}

	switch {
	case update.TotalBytes > 0:
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		raw.Percent = &percent
		total := int64(update.TotalBytes)
		raw.TotalBytes = &total
	case update.FragmentCount > 0:
		percent := float64(update.FragmentIndex) / float64(update.FragmentCount) * 100
		raw.Percent = &percent
	}

	if !update.Started.IsZero() {
		elapsed := now.Sub(update.Started).Seconds()
		if elapsed > 0 && update.DownloadedBytes > 0 {
			speed := float64(update.DownloadedBytes) / elapsed
			raw.Speed = &speed

			if update.TotalBytes > update.DownloadedBytes {
				eta := float64(update.TotalBytes-update.DownloadedBytes) / speed
				raw.ETASec = &eta
			}
		}
	}

	return raw
}
