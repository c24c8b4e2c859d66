package platform

// Package platform contains OS/platform integration and external tooling glue:
// the yt-dlp adapter used for metadata and transfers, playlist listing, and
// filesystem helpers.
