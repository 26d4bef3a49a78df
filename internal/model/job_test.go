package model

import "testing"

func TestDownloadJob_ETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}

	for _, tt := range tests {
		job := &DownloadJob{ETASec: tt.etaSec}
		if got := job.ETAString(); got != tt.expected {
			t.Errorf("ETAString() with ETASec=%d = %s, want %s", tt.etaSec, got, tt.expected)
		}
	}
}

func TestDownloadJob_SpeedString(t *testing.T) {
	tests := []struct {
		bps      float64
		expected string
	}{
		{0, "—"},
		{512 * 1024, "512KB/s"},
		{2.5 * 1024 * 1024, "2.5MB/s"},
	}

	for _, tt := range tests {
		job := &DownloadJob{BytesPerSecond: tt.bps}
		if got := job.SpeedString(); got != tt.expected {
			t.Errorf("SpeedString() with %v = %s, want %s", tt.bps, got, tt.expected)
		}
	}
}

func TestJobStatus_IsFinished(t *testing.T) {
	finished := []JobStatus{JobStatusCompleted, JobStatusCancelled, JobStatusError}
	for _, s := range finished {
		if !s.IsFinished() {
			t.Errorf("%s.IsFinished() = false, want true", s)
		}
	}
	active := []JobStatus{JobStatusPending, JobStatusDownloading, JobStatusProcessing}
	for _, s := range active {
		if s.IsFinished() {
			t.Errorf("%s.IsFinished() = true, want false", s)
		}
	}
}
