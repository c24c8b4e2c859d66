package download

import (
	"github.com/ytget/night-downloader/internal/model"
)

// stageTracker maps per-file percentages onto one bar. Merged selectors
// download one file per track, and yt-dlp restarts its percentage for each
// file; a change of filename advances the stage.
type stageTracker struct {
	stages   int
	stage    int
	filename string
	last     float64
}

func newStageTracker(req model.DownloadRequest) *stageTracker {
	stages := len(req.Tracks())
	if stages < 1 {
		stages = 1
	}
	return &stageTracker{stages: stages}
}

// overall converts a per-file percent into the overall percent. The result
// never decreases.
func (t *stageTracker) overall(filename string, percent float64) float64 {
	if filename != "" && filename != t.filename {
		if t.filename != "" && t.stage < t.stages-1 {
			t.stage++
		}
		t.filename = filename
	}

	v := (float64(t.stage) + percent/100) / float64(t.stages) * 100
	if v < t.last {
		v = t.last
	}
	if v > 100 {
		v = 100
	}
	t.last = v
	return v
}
