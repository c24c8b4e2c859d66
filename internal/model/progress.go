package model

import (
	"fmt"
	"math"
	"strings"
)

// Raw progress statuses reported by yt-dlp.
const (
	RawStatusDownloading    = "downloading"
	RawStatusFinished       = "finished"
	RawStatusPostProcessing = "post_processing"
	RawStatusError          = "error"
)

// FileSizeUnit is the binary unit used when rendering byte counts.
const FileSizeUnit = 1024

var fileSizeUnits = "KMGTPE"

// RawProgress is one progress callback payload as reported by the
// extraction library, before validation. Percent is on the 0..100 scale.
type RawProgress struct {
	Status     string
	Percent    *float64
	ETASec     *float64
	Speed      *float64 // bytes per second
	TotalBytes *int64
	Filename   string
}

// ProgressEvent is a validated progress report for an active download.
type ProgressEvent struct {
	Percent    float64 // 0 to 100
	Speed      float64 // bytes per second, 0 if unknown
	ETASec     int     // -1 if unknown
	TotalBytes int64   // 0 if unknown
}

// ParseProgress validates a raw payload. Payloads whose status is not
// "downloading" return ErrProgressIgnored; payloads without a usable
// percent return an error wrapping ErrMalformedProgress.
func ParseProgress(raw RawProgress) (ProgressEvent, error) {
	if raw.Status != RawStatusDownloading {
		return ProgressEvent{}, fmt.Errorf("status %q: %w", raw.Status, ErrProgressIgnored)
	}
	if raw.Percent == nil {
		return ProgressEvent{}, fmt.Errorf("missing percent: %w", ErrMalformedProgress)
	}

	percent := *raw.Percent
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 {
		return ProgressEvent{}, fmt.Errorf("percent %v out of range: %w", percent, ErrMalformedProgress)
	}
	if percent > 100 {
		percent = 100
	}

	ev := ProgressEvent{Percent: percent, ETASec: -1}
	if raw.Speed != nil && *raw.Speed > 0 && !math.IsInf(*raw.Speed, 0) {
		ev.Speed = *raw.Speed
	}
	if raw.ETASec != nil && *raw.ETASec >= 0 && !math.IsInf(*raw.ETASec, 0) {
		ev.ETASec = int(math.Round(*raw.ETASec))
	}
	if raw.TotalBytes != nil && *raw.TotalBytes > 0 {
		ev.TotalBytes = *raw.TotalBytes
	}
	return ev, nil
}

// Fraction returns the progress on the 0..1 scale used by progress bars.
func (p ProgressEvent) Fraction() float64 {
	return p.Percent / 100
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown.
func (p ProgressEvent) GetETAString() string {
	if p.ETASec < 0 {
		return "—"
	}
	return FormatClock(p.ETASec)
}

// GetSpeedString returns the transfer rate, e.g. "1.0 MiB/s", or "—".
func (p ProgressEvent) GetSpeedString() string {
	if p.Speed <= 0 {
		return "—"
	}
	return FormatFileSize(int64(p.Speed)) + "/s"
}

// String renders the progress line shown in the status label and written
// to the download log, e.g. "42.7% of 476.8 MiB at 1.0 MiB/s ETA 00:30".
func (p ProgressEvent) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%.1f%%", p.Percent))
	if p.TotalBytes > 0 {
		b.WriteString(" of ")
		b.WriteString(FormatFileSize(p.TotalBytes))
	}
	b.WriteString(" at ")
	b.WriteString(p.GetSpeedString())
	b.WriteString(" ETA ")
	b.WriteString(p.GetETAString())
	return b.String()
}

// FormatFileSize formats a byte count in binary units.
func FormatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit && exp < len(fileSizeUnits)-1; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), fileSizeUnits[exp])
}
