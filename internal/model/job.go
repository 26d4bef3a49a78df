package model

import (
	"fmt"
	"time"
)

// JobStatus represents the state of one download invocation.
type JobStatus string

const (
	// JobStatusPending means the job is queued but not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusDownloading means the transfer is in progress
	JobStatusDownloading JobStatus = "Downloading"

	// JobStatusProcessing means the transfer finished and post-processing runs
	JobStatusProcessing JobStatus = "Processing"

	// JobStatusCompleted means the job finished successfully
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusCancelled means the job was interrupted by the caller
	JobStatusCancelled JobStatus = "Cancelled"

	// JobStatusError means the job failed
	JobStatusError JobStatus = "Error"
)

// String returns the string representation of JobStatus.
func (s JobStatus) String() string {
	return string(s)
}

// IsFinished reports whether the job reached a terminal state.
func (s JobStatus) IsFinished() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled || s == JobStatusError
}

// DownloadJob holds the mutable per-call counters of one download. They are
// recomputed on every progress event and never persisted.
type DownloadJob struct {
	ID              string
	URL             string
	Title           string
	Status          JobStatus
	DownloadedBytes int64
	TotalBytes      int64 // 0 when the engine reports no total
	Percent         int   // 0-100, stays 0 when TotalBytes is unknown
	BytesPerSecond  float64
	ETASec          int // -1 when unknown
	OutputPath      string
	LastError       string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// ETAString returns the ETA as HH:MM:SS or MM:SS, or "—" when unknown.
func (j *DownloadJob) ETAString() string {
	if j.ETASec <= 0 {
		return "—"
	}
	hours := j.ETASec / 3600
	minutes := (j.ETASec % 3600) / 60
	seconds := j.ETASec % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// SpeedString returns a human readable transfer rate.
func (j *DownloadJob) SpeedString() string {
	if j.BytesPerSecond <= 0 {
		return "—"
	}
	mbps := j.BytesPerSecond / 1024 / 1024
	if mbps >= 1 {
		return fmt.Sprintf("%.1fMB/s", mbps)
	}
	return fmt.Sprintf("%.0fKB/s", j.BytesPerSecond/1024)
}
