package platform

// Package platform contains provider URL validation and extraction, filename
// sanitizing, FFmpeg discovery, and filesystem helpers shared by the download
// and transcript pipelines.
