package platform

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

func TestParseInfoJSON(t *testing.T) {
	data := []byte(`{
		"id": "abc123",
		"title": "Test Video",
		"duration": 212.5,
		"formats": [
			{"format_id": "140", "format_note": "medium", "acodec": "mp4a.40.2", "vcodec": "none", "ext": "m4a"},
			{"format_id": "137", "format_note": "1080p", "height": 1080, "vcodec": "avc1.640028", "acodec": "none", "ext": "mp4"}
		]
	}`)

	info, err := ParseInfoJSON(data)
	if err != nil {
		t.Fatalf("ParseInfoJSON() error = %v", err)
	}
	if info.Title == nil || *info.Title != "Test Video" {
		t.Errorf("Title = %v, want Test Video", info.Title)
	}
	if info.Duration == nil || *info.Duration != 212.5 {
		t.Errorf("Duration = %v, want 212.5", info.Duration)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("len(Formats) = %d, want 2", len(info.Formats))
	}
	if info.Formats[0].Height != nil {
		t.Errorf("audio format Height = %v, want nil", *info.Formats[0].Height)
	}
	if info.Formats[1].Height == nil || *info.Formats[1].Height != 1080 {
		t.Errorf("video format Height = %v, want 1080", info.Formats[1].Height)
	}
}

func TestParseInfoJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"not json", "ERROR: Unsupported URL"},
		{"truncated", `{"title": "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInfoJSON([]byte(tt.data)); err == nil {
				t.Errorf("ParseInfoJSON(%q) expected error", tt.data)
			}
		})
	}
}

func TestToRawProgress(t *testing.T) {
	started := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(10 * time.Second)

	tests := []struct {
		name        string
		update      ytdlp.ProgressUpdate
		wantPercent float64 // NaN means no percent
		wantSpeed   float64 // NaN means no speed
		wantETA     float64 // NaN means no ETA
		wantTotal   int64
	}{
		{
			name: "bytes known",
			update: ytdlp.ProgressUpdate{
				Status:          ytdlp.ProgressStatusDownloading,
				TotalBytes:      1000,
				DownloadedBytes: 250,
				Started:         started,
			},
			wantPercent: 25,
			wantSpeed:   25,
			wantETA:     30,
			wantTotal:   1000,
		},
		{
			name: "fragments only",
			update: ytdlp.ProgressUpdate{
				Status:        ytdlp.ProgressStatusDownloading,
				FragmentIndex: 3,
				FragmentCount: 12,
			},
			wantPercent: 25,
			wantSpeed:   math.NaN(),
			wantETA:     math.NaN(),
		},
		{
			name: "nothing known",
			update: ytdlp.ProgressUpdate{
				Status: ytdlp.ProgressStatusDownloading,
			},
			wantPercent: math.NaN(),
			wantSpeed:   math.NaN(),
			wantETA:     math.NaN(),
		},
		{
			name: "complete",
			update: ytdlp.ProgressUpdate{
				Status:          ytdlp.ProgressStatusDownloading,
				TotalBytes:      500,
				DownloadedBytes: 500,
				Started:         started,
			},
			wantPercent: 100,
			wantSpeed:   50,
			wantETA:     math.NaN(),
			wantTotal:   500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := toRawProgress(tt.update, now)

			if raw.Status != string(tt.update.Status) {
				t.Errorf("Status = %q, want %q", raw.Status, tt.update.Status)
			}
			checkOptional(t, "Percent", raw.Percent, tt.wantPercent)
			checkOptional(t, "Speed", raw.Speed, tt.wantSpeed)
			checkOptional(t, "ETASec", raw.ETASec, tt.wantETA)

			var total int64
			if raw.TotalBytes != nil {
				total = *raw.TotalBytes
			}
			if total != tt.wantTotal {
				t.Errorf("TotalBytes = %d, want %d", total, tt.wantTotal)
			}
		})
	}
}

func checkOptional(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if math.IsNaN(want) {
		if got != nil {
			t.Errorf("%s = %v, want unset", name, *got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s unset, want %v", name, want)
		return
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestYTDLPOutputTemplate(t *testing.T) {
	dir := t.TempDir()
	y := NewYTDLP(dir, nil)

	if got, want := y.OutputTemplate(), filepath.Join(dir, DefaultFilenameTemplate); got != want {
		t.Errorf("OutputTemplate() = %q, want %q", got, want)
	}

	y.SetFilenameTemplate("%(id)s.%(ext)s")
	if got, want := y.OutputTemplate(), filepath.Join(dir, "%(id)s.%(ext)s"); got != want {
		t.Errorf("OutputTemplate() = %q, want %q", got, want)
	}

	y.SetFilenameTemplate("")
	if got, want := y.OutputTemplate(), filepath.Join(dir, DefaultFilenameTemplate); got != want {
		t.Errorf("empty template should reset, got %q", got)
	}

	other := t.TempDir()
	y.SetDownloadDirectory(other)
	if got, want := y.OutputTemplate(), filepath.Join(other, DefaultFilenameTemplate); got != want {
		t.Errorf("OutputTemplate() = %q, want %q", got, want)
	}
}
