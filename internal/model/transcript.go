package model

import (
	"fmt"
	"math"
	"strings"
)

// Transcript sources. Captions come from the provider; the engine names match
// the speech-to-text backend that produced the segments.
const (
	SourceCaptions      = "captions"
	SourceWhisper       = "whisper"
	SourceFasterWhisper = "faster-whisper"
	SourceKotoba        = "kotoba-whisper"
)

// TranscriptSegment is one timed span of transcript text. Start and End are
// fractional seconds with Start <= End. Immutable.
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// StartString formats the segment start as H:MM:SS or M:SS.
func (s TranscriptSegment) StartString() string {
	return formatClock(s.Start)
}

// EndString formats the segment end as H:MM:SS or M:SS.
func (s TranscriptSegment) EndString() string {
	return formatClock(s.End)
}

func formatClock(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// TranscriptResult is the outcome of one transcript acquisition. Segments are
// chronological and non-overlapping by convention.
type TranscriptResult struct {
	Title    string
	SourceID string // id of the originating item, empty for file input
	Language string
	Segments []TranscriptSegment
	Source   string // SourceCaptions or an engine name
}

// FullText joins all segment text with single spaces.
func (r *TranscriptResult) FullText() string {
	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// ToSRT renders numbered blocks with HH:MM:SS,mmm timestamps.
func (r *TranscriptResult) ToSRT() string {
	var b strings.Builder
	for i, seg := range r.Segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTTime(seg.Start), formatSRTTime(seg.End))
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ToTimestampedText renders one "[H:MM:SS] text" line per segment.
func (r *TranscriptResult) ToTimestampedText() string {
	lines := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		lines = append(lines, fmt.Sprintf("[%s] %s", seg.StartString(), seg.Text))
	}
	return strings.Join(lines, "\n")
}

// ToPlainText renders the transcript without timestamps.
func (r *TranscriptResult) ToPlainText() string {
	return r.FullText()
}

func formatSRTTime(seconds float64) string {
	// Rounding over total milliseconds avoids truncation drift and carries
	// into the seconds field when rounding up.
	totalMillis := int(math.Round(seconds * 1000))
	hours := totalMillis / 3600000
	minutes := totalMillis % 3600000 / 60000
	secs := totalMillis % 60000 / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// MergeResults concatenates per-item results into one combined result. A
// single input is returned unmodified. With multiple inputs the segment
// sequence is the ordered union and the title carries the item count.
func MergeResults(results []TranscriptResult) TranscriptResult {
	if len(results) == 1 {
		return results[0]
	}

	merged := TranscriptResult{}
	if len(results) == 0 {
		return merged
	}

	first := results[0]
	merged.Title = fmt.Sprintf("%s (%d items)", first.Title, len(results))
	merged.Language = first.Language
	merged.Source = first.Source
	for _, r := range results {
		merged.Segments = append(merged.Segments, r.Segments...)
	}
	return merged
}
