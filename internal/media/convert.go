package media

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ytget/yt-scribe/internal/model"
)

// FFmpeg constants for speech-to-text audio preparation
const (
	// Recognition models expect 16 kHz mono PCM
	SpeechSampleRate = "16000"
	SpeechChannels   = "1"
	SpeechCodec      = "pcm_s16le"

	// Output suffix
	NormalizedSuffix = "-16k"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	OutputExtensionWAV  = ".wav"
)

// Converter prepares downloaded audio for the recognition engines.
type Converter struct {
	ffmpegPath string // empty means FFmpeg is unavailable
}

// NewConverter creates a converter. ffmpegPath may be empty; conversion then
// degrades to pass-through since the engines decode common containers
// themselves.
func NewConverter(ffmpegPath string) *Converter {
	return &Converter{ffmpegPath: ffmpegPath}
}

// Available reports whether FFmpeg was found.
func (c *Converter) Available() bool {
	return c.ffmpegPath != ""
}

// NormalizeForSpeech converts an audio file to 16 kHz mono WAV and returns the
// converted path. Without FFmpeg the input path is returned unchanged.
func (c *Converter) NormalizeForSpeech(ctx context.Context, inputPath string) (string, error) {
	if !c.Available() {
		return inputPath, nil
	}

	outputPath := normalizedOutputPath(inputPath)
	args := buildNormalizeArgs(inputPath, outputPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	if err := cmd.Run(); err != nil {
		// Remove partial output file
		os.Remove(outputPath)
		return "", model.NewError(model.KindFileIO, "audio conversion failed", err)
	}

	return outputPath, nil
}

// AudioDuration returns the duration of an audio file in seconds using
// ffprobe.
func (c *Converter) AudioDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath(),
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, model.NewError(model.KindFileIO, "failed to run ffprobe", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, model.NewError(model.KindParse, "failed to parse duration", err)
	}

	return duration, nil
}

// ffprobePath resolves ffprobe next to the configured ffmpeg binary, falling
// back to PATH lookup.
func (c *Converter) ffprobePath() string {
	if c.ffmpegPath == "" || c.ffmpegPath == FFmpegCommand {
		return FFprobeCommand
	}
	return filepath.Join(filepath.Dir(c.ffmpegPath), FFprobeCommand)
}

// buildNormalizeArgs builds the ffmpeg command arguments
func buildNormalizeArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-ar", SpeechSampleRate, // Sample rate
		"-ac", SpeechChannels, // Mono
		"-c:a", SpeechCodec, // PCM codec
		"-vn",      // Drop any video stream
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// normalizedOutputPath generates the output path for the converted file
func normalizedOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)
	return baseName + NormalizedSuffix + OutputExtensionWAV
}
