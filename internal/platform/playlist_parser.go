package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	ytget "github.com/ytget/ytdlp/v2"

	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 30 * time.Second
)

// PlaylistQueryKey is the query parameter carrying the playlist id.
const PlaylistQueryKey = "list"

// YouTubeVideoURLTemplate builds an entry URL from a video id.
const YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"

// Default values
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	DefaultTitleSuffix   = " - Playlist"
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
)

// PlaylistItem is one video reported by the playlist source.
type PlaylistItem struct {
	VideoID string
	Title   string
}

// PlaylistFetcher lists every item of a playlist id.
type PlaylistFetcher func(ctx context.Context, playlistID string) ([]PlaylistItem, error)

// PlaylistParser lists the entries of a playlist URL.
type PlaylistParser struct {
	timeout time.Duration
	fetch   PlaylistFetcher
	logger  *slog.Logger
}

// NewPlaylistParser creates a parser backed by the ytdlp playlist API.
func NewPlaylistParser(logger *slog.Logger) *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultPlaylistParseTimeout,
		fetch:   fetchPlaylistItems,
		logger:  logging.OrDefault(logger),
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// SetFetcher replaces the playlist source.
func (p *PlaylistParser) SetFetcher(fetch PlaylistFetcher) {
	p.fetch = fetch
}

// IsPlaylistURL reports whether rawURL carries a playlist parameter.
func IsPlaylistURL(rawURL string) bool {
	id, err := extractPlaylistID(rawURL)
	return err == nil && id != ""
}

// ParsePlaylist lists rawURL's entries. On failure the returned playlist is
// still non-nil when the id could be read, with its status set to error.
func (p *PlaylistParser) ParsePlaylist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := model.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	playlist := model.NewPlaylist(rawURL)

	playlistID, err := extractPlaylistID(rawURL)
	if err != nil {
		playlist.Error = err.Error()
		playlist.UpdateStatus(model.PlaylistStatusError)
		return playlist, err
	}
	playlist.ID = playlistID

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.fetch(ctx, playlistID)
	if err != nil {
		err = fmt.Errorf("failed to get playlist items: %w", err)
		p.logger.Warn("playlist listing failed", "playlist", playlistID, "error", err)
		playlist.Error = err.Error()
		playlist.UpdateStatus(model.PlaylistStatusError)
		return playlist, err
	}

	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddEntry(&model.PlaylistEntry{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}

	if len(playlist.Entries) > 0 {
		playlist.Title = extractPlaylistTitle(playlist.Entries)
	} else {
		playlist.Title = fmt.Sprintf("Playlist %s", playlistID)
	}

	playlist.UpdateStatus(model.PlaylistStatusReady)
	p.logger.Debug("playlist parsed", "playlist", playlistID, "entries", len(playlist.Entries))
	return playlist, nil
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	items, err := ytget.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// extractPlaylistID extracts the playlist ID from a playlist URL.
// Supported forms:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
//
// Only an exact "list" query key counts; keys such as "blacklist" do not.
func extractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	query := u.Query()
	if !query.Has(PlaylistQueryKey) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	playlistID := query.Get(PlaylistQueryKey)
	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID")
	}
	return playlistID, nil
}

// extractPlaylistTitle derives a display title from the first entry.
// MaxTitleLength counts runes.
func extractPlaylistTitle(entries []*model.PlaylistEntry) string {
	if len(entries) == 0 || entries[0].Title == "" {
		return DefaultPlaylistTitle
	}

	firstTitle := entries[0].Title
	if runes := []rune(firstTitle); len(runes) > MaxTitleLength {
		firstTitle = string(runes[:MaxTitleLength]) + TitleTruncateSuffix
	}
	return firstTitle + DefaultTitleSuffix
}
