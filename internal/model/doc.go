package model

// Package model defines the domain data shared by the extraction client, the
// download orchestrator and the UI: format descriptors, video metadata,
// progress events, download outcomes and requests, and the typed errors
// raised along the way. Raw* types mirror what the yt-dlp boundary reports
// before validation.
