package pipeline

// Package pipeline acquires transcripts end to end: provider captions first
// when preferred, then audio download, FFmpeg normalization and speech
// recognition as the fallback path.
