package model

import (
	"fmt"
	"strings"
	"time"
)

// Display defaults substituted for fields the extractor did not report.
const (
	DefaultNote     = "No note available"
	DefaultCodec    = "Unknown codec"
	DefaultTitle    = "No title available"
	DefaultDuration = "Unknown duration"
)

// LabelSeparator joins a format note and its id in selection lists.
const LabelSeparator = " - "

// FormatDescriptor is one selectable encoding variant of a video.
// Height is zero for audio-only variants. Empty codec strings mean the
// extractor did not report a codec for that track.
type FormatDescriptor struct {
	ID         string
	Note       string
	VideoCodec string
	AudioCodec string
	Height     int
	Ext        string
}

// IsVideo reports whether the format carries a video track.
func (f FormatDescriptor) IsVideo() bool {
	return f.Height > 0
}

// DisplayNote returns the note or DefaultNote.
func (f FormatDescriptor) DisplayNote() string {
	if f.Note == "" {
		return DefaultNote
	}
	return f.Note
}

// DisplayVideoCodec returns the video codec or DefaultCodec.
func (f FormatDescriptor) DisplayVideoCodec() string {
	if f.VideoCodec == "" {
		return DefaultCodec
	}
	return f.VideoCodec
}

// DisplayAudioCodec returns the audio codec or DefaultCodec.
func (f FormatDescriptor) DisplayAudioCodec() string {
	if f.AudioCodec == "" {
		return DefaultCodec
	}
	return f.AudioCodec
}

// Label renders the format the way selection lists show it: "<note> - <id>".
// Video formats carry their height and codec inside the note part.
func (f FormatDescriptor) Label() string {
	var b strings.Builder
	b.WriteString(f.DisplayNote())
	if f.IsVideo() {
		b.WriteString(fmt.Sprintf(" (%dp, %s)", f.Height, f.DisplayVideoCodec()))
	} else {
		b.WriteString(fmt.Sprintf(" (%s)", f.DisplayAudioCodec()))
	}
	b.WriteString(LabelSeparator)
	b.WriteString(f.ID)
	return b.String()
}

// FormatIDFromLabel extracts the format id from a Label string. It returns
// an empty string when the label has no id part.
func FormatIDFromLabel(label string) string {
	idx := strings.LastIndex(label, LabelSeparator)
	if idx < 0 {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(label[idx+len(LabelSeparator):])
}

// VideoMetadata is the result of one metadata fetch.
type VideoMetadata struct {
	URL      string
	Title    string
	Duration time.Duration // zero if unknown
	Formats  []FormatDescriptor
}

// Partition splits the formats into video-capable and audio-only variants,
// preserving order. Every descriptor ends up in exactly one slice.
func (m *VideoMetadata) Partition() (video, audio []FormatDescriptor) {
	for _, f := range m.Formats {
		if f.IsVideo() {
			video = append(video, f)
		} else {
			audio = append(audio, f)
		}
	}
	return video, audio
}

// FindFormat returns the descriptor with the given id.
func (m *VideoMetadata) FindFormat(id string) (FormatDescriptor, bool) {
	for _, f := range m.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return FormatDescriptor{}, false
}

// GetDurationString returns the duration as hh:mm:ss or mm:ss, or
// DefaultDuration when unknown.
func (m *VideoMetadata) GetDurationString() string {
	if m.Duration <= 0 {
		return DefaultDuration
	}
	return FormatClock(int(m.Duration.Seconds()))
}

// FormatClock formats seconds as mm:ss, or hh:mm:ss past one hour.
func FormatClock(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// RawFormat is one entry of the extractor's formats list as decoded from
// yt-dlp JSON. Every field may be missing.
type RawFormat struct {
	FormatID   *string  `json:"format_id"`
	FormatNote *string  `json:"format_note"`
	Height     *float64 `json:"height"`
	VCodec     *string  `json:"vcodec"`
	ACodec     *string  `json:"acodec"`
	Ext        *string  `json:"ext"`
}

// RawInfo is the extractor's metadata-only answer for a URL.
type RawInfo struct {
	ID       *string     `json:"id"`
	Title    *string     `json:"title"`
	Duration *float64    `json:"duration"`
	Formats  []RawFormat `json:"formats"`
}
