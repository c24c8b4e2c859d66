package download

// Package download implements the download orchestrator built on top of
// yt-dlp. It admits at most one active download, runs the transfer on a
// background goroutine, translates raw progress callbacks into ordered
// model.Event values ending in exactly one outcome, and mirrors the stream
// into a best-effort text log.
