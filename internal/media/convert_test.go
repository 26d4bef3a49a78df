package media

import (
	"context"
	"testing"
)

func TestNormalizedOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/audio.mp3", "/path/to/audio-16k.wav"},
		{"/path/to/audio.m4a", "/path/to/audio-16k.wav"},
		{"audio.webm", "audio-16k.wav"},
		{"/no/ext/file", "/no/ext/file-16k.wav"},
	}

	for _, test := range tests {
		result := normalizedOutputPath(test.input)
		if result != test.expected {
			t.Errorf("normalizedOutputPath(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestBuildNormalizeArgs(t *testing.T) {
	args := buildNormalizeArgs("/input.mp3", "/output.wav")

	expectedArgs := []string{
		"-y",
		"-i", "/input.mp3",
		"-ar", SpeechSampleRate,
		"-ac", SpeechChannels,
		"-c:a", SpeechCodec,
		"-vn",
		"-nostats",
		"/output.wav",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}

	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestNormalizeForSpeech_PassThroughWithoutFFmpeg(t *testing.T) {
	c := NewConverter("")

	if c.Available() {
		t.Error("Expected converter without ffmpeg to be unavailable")
	}

	path, err := c.NormalizeForSpeech(context.Background(), "/downloads/audio.m4a")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if path != "/downloads/audio.m4a" {
		t.Errorf("Expected pass-through path, got %s", path)
	}
}

func TestFfprobePath(t *testing.T) {
	tests := []struct {
		ffmpeg   string
		expected string
	}{
		{"", "ffprobe"},
		{"ffmpeg", "ffprobe"},
		{"/opt/ffmpeg/bin/ffmpeg", "/opt/ffmpeg/bin/ffprobe"},
	}

	for _, test := range tests {
		c := NewConverter(test.ffmpeg)
		if got := c.ffprobePath(); got != test.expected {
			t.Errorf("ffprobePath() with %q = %s, expected %s", test.ffmpeg, got, test.expected)
		}
	}
}
