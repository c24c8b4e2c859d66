package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist listing
type PlaylistStatus string

const (
	PlaylistStatusParsing PlaylistStatus = "parsing"
	PlaylistStatusReady   PlaylistStatus = "ready"
	PlaylistStatusError   PlaylistStatus = "error"
)

// PlaylistEntry is one video of a playlist. Selecting an entry feeds its
// URL back into the metadata fetch.
type PlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Label renders the entry for selection lists.
func (e *PlaylistEntry) Label() string {
	if e.Title == "" {
		return e.ID
	}
	return e.Title + LabelSeparator + e.ID
}

// Playlist represents a playlist URL and its entries
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Entries   []*PlaylistEntry `json:"entries"`
	Status    PlaylistStatus   `json:"status"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Status:    PlaylistStatusParsing,
		Entries:   make([]*PlaylistEntry, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddEntry appends an entry to the playlist
func (p *Playlist) AddEntry(entry *PlaylistEntry) {
	p.Entries = append(p.Entries, entry)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// FindEntryByLabel returns the entry whose Label matches
func (p *Playlist) FindEntryByLabel(label string) (*PlaylistEntry, bool) {
	for _, entry := range p.Entries {
		if entry.Label() == label {
			return entry, true
		}
	}
	return nil, false
}

// IsReady reports whether the listing finished with at least one entry
func (p *Playlist) IsReady() bool {
	return p.Status == PlaylistStatusReady && len(p.Entries) > 0
}
