package model

import (
	"strings"
	"testing"
)

func TestFormatSRTTime_MillisecondRounding(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3605.999, "01:00:05,999"},
		{2.9996, "00:00:03,000"},
		{59.9995, "00:01:00,000"},
	}

	for _, test := range tests {
		result := formatSRTTime(test.seconds)
		if result != test.expected {
			t.Errorf("formatSRTTime(%v) = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestTranscriptSegment_StartString(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{30.5, "0:30"},
		{90, "1:30"},
		{3600, "1:00:00"},
		{3661.9, "1:01:01"},
	}

	for _, tt := range tests {
		seg := TranscriptSegment{Start: tt.seconds}
		if got := seg.StartString(); got != tt.expected {
			t.Errorf("StartString() with %v = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}

func TestTranscriptResult_Exports(t *testing.T) {
	r := &TranscriptResult{
		Title:    "Sample",
		Language: "en",
		Source:   SourceCaptions,
		Segments: []TranscriptSegment{
			{Start: 0, End: 2.5, Text: "hello"},
			{Start: 2.5, End: 5, Text: "world"},
		},
	}

	if got := r.FullText(); got != "hello world" {
		t.Errorf("FullText() = %q, want %q", got, "hello world")
	}
	if got := r.ToPlainText(); got != "hello world" {
		t.Errorf("ToPlainText() = %q, want %q", got, "hello world")
	}

	txt := r.ToTimestampedText()
	if txt != "[0:00] hello\n[0:02] world" {
		t.Errorf("ToTimestampedText() = %q", txt)
	}

	srt := r.ToSRT()
	wantLines := []string{
		"1",
		"00:00:00,000 --> 00:00:02,500",
		"hello",
		"",
		"2",
		"00:00:02,500 --> 00:00:05,000",
		"world",
	}
	if srt != strings.Join(wantLines, "\n")+"\n" {
		t.Errorf("ToSRT() = %q", srt)
	}
}

func TestMergeResults(t *testing.T) {
	one := TranscriptResult{
		Title:    "first",
		Language: "en",
		Source:   SourceWhisper,
		Segments: []TranscriptSegment{{Start: 0, End: 1, Text: "a"}},
	}
	two := TranscriptResult{
		Title:    "second",
		Segments: []TranscriptSegment{{Start: 0, End: 1, Text: "b"}, {Start: 1, End: 2, Text: "c"}},
	}
	three := TranscriptResult{
		Title:    "third",
		Segments: []TranscriptSegment{{Start: 0, End: 1, Text: "d"}},
	}

	merged := MergeResults([]TranscriptResult{one, two, three})

	if len(merged.Segments) != 4 {
		t.Fatalf("merged segment count = %d, want 4", len(merged.Segments))
	}
	order := []string{"a", "b", "c", "d"}
	for i, want := range order {
		if merged.Segments[i].Text != want {
			t.Errorf("segment %d text = %q, want %q", i, merged.Segments[i].Text, want)
		}
	}
	if merged.Title != "first (3 items)" {
		t.Errorf("merged title = %q", merged.Title)
	}
	if merged.Language != "en" || merged.Source != SourceWhisper {
		t.Errorf("merged metadata = %q/%q", merged.Language, merged.Source)
	}
}

func TestMergeResults_SingleUnmodified(t *testing.T) {
	one := TranscriptResult{
		Title:    "solo",
		SourceID: "abc123",
		Segments: []TranscriptSegment{{Start: 0, End: 1, Text: "a"}},
	}
	merged := MergeResults([]TranscriptResult{one})
	if merged.Title != "solo" || merged.SourceID != "abc123" || len(merged.Segments) != 1 {
		t.Errorf("single result was modified: %+v", merged)
	}
}
