package download

// Package download drives the extraction engine (yt-dlp via
// github.com/lrstanley/go-ytdlp): metadata lookup, single-item and batch
// downloads with anti-throttling pacing, playlist resolution with filtering,
// and progress propagation to callers.
