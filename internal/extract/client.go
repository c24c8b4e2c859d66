package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
)

// DefaultTimeout bounds one metadata query.
const DefaultTimeout = 60 * time.Second

// codecNone is what yt-dlp reports for a missing track.
const codecNone = "none"

// Source queries the extraction backend in metadata-only mode.
type Source interface {
	Probe(ctx context.Context, url string) (*model.RawInfo, error)
}

// Client fetches and maps video metadata.
type Client struct {
	source  Source
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-query timeout. Non-positive values disable it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for skipped formats.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client backed by source.
func NewClient(source Source, opts ...Option) *Client {
	c := &Client{
		source:  source,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger)
	return c
}

// FetchMetadata returns the title, duration and formats for rawURL. Every
// failure is reported as a *model.ExtractionError; nothing is retried.
func (c *Client) FetchMetadata(ctx context.Context, rawURL string) (*model.VideoMetadata, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := model.ValidateURL(rawURL); err != nil {
		return nil, &model.ExtractionError{URL: rawURL, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	info, err := c.source.Probe(ctx, rawURL)
	if err != nil {
		c.logger.Warn("metadata fetch failed", "url", rawURL, "error", err)
		return nil, &model.ExtractionError{URL: rawURL, Err: err}
	}
	if info == nil {
		return nil, &model.ExtractionError{URL: rawURL, Err: fmt.Errorf("empty response")}
	}

	meta := c.mapInfo(rawURL, info)
	c.logger.Info("metadata fetched",
		"url", rawURL,
		"title", meta.Title,
		"formats", len(meta.Formats),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return meta, nil
}

// FetchMetadataAsync runs FetchMetadata on its own goroutine and hands the
// result to done. done runs on that goroutine; UI callers marshal it back
// onto their event loop.
func (c *Client) FetchMetadataAsync(ctx context.Context, rawURL string, done func(*model.VideoMetadata, error)) {
	go func() {
		meta, err := c.FetchMetadata(ctx, rawURL)
		done(meta, err)
	}()
}

func (c *Client) mapInfo(rawURL string, info *model.RawInfo) *model.VideoMetadata {
	meta := &model.VideoMetadata{
		URL:     rawURL,
		Title:   model.DefaultTitle,
		Formats: make([]model.FormatDescriptor, 0, len(info.Formats)),
	}
	if title := deref(info.Title); title != "" {
		meta.Title = title
	}
	if info.Duration != nil && *info.Duration > 0 && !math.IsInf(*info.Duration, 0) {
		meta.Duration = time.Duration(*info.Duration * float64(time.Second))
	}

	for i, raw := range info.Formats {
		f, ok := mapFormat(raw)
		if !ok {
			c.logger.Debug("skipping format", "index", i, "format_id", deref(raw.FormatID))
			continue
		}
		meta.Formats = append(meta.Formats, f)
	}
	return meta
}

// mapFormat converts one raw entry. Entries without an id, or without any
// media track (storyboards), are not selectable and are rejected.
func mapFormat(raw model.RawFormat) (model.FormatDescriptor, bool) {
	id := deref(raw.FormatID)
	if id == "" {
		return model.FormatDescriptor{}, false
	}

	f := model.FormatDescriptor{
		ID:         id,
		Note:       deref(raw.FormatNote),
		VideoCodec: codec(raw.VCodec),
		AudioCodec: codec(raw.ACodec),
		Ext:        deref(raw.Ext),
	}
	if isNone(raw.VCodec) && isNone(raw.ACodec) {
		return model.FormatDescriptor{}, false
	}
	if raw.Height != nil && *raw.Height > 0 && !isNone(raw.VCodec) {
		f.Height = int(*raw.Height)
	}
	return f, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func codec(s *string) string {
	v := deref(s)
	if v == codecNone {
		return ""
	}
	return v
}

func isNone(s *string) bool {
	return s != nil && deref(s) == codecNone
}
