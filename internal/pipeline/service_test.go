package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-scribe/internal/cancel"
	"github.com/ytget/yt-scribe/internal/model"
)

// testService returns a pipeline with every stage stubbed out. Individual
// tests override the stages they exercise.
func testService() *Service {
	s := &Service{}
	s.fetchCaptions = func(_ context.Context, _, _ string, _ []string) (*model.TranscriptResult, error) {
		return nil, nil
	}
	s.resolveInfo = func(_ context.Context, url string) (*model.VideoInfo, error) {
		return &model.VideoInfo{ID: "vid1", Title: "Talk", URL: url}, nil
	}
	s.downloadAudio = func(_ context.Context, _, dir string, _ *cancel.Token) (string, error) {
		return filepath.Join(dir, "audio.m4a"), nil
	}
	s.normalizeAudio = func(_ context.Context, path string) (string, error) {
		return path, nil
	}
	s.transcribeFile = func(_ context.Context, _, _, _ string) (*model.TranscriptResult, error) {
		return &model.TranscriptResult{
			Source:   model.SourceWhisper,
			Language: "ja",
			Segments: []model.TranscriptSegment{{Start: 0, End: 1, Text: "recognized"}},
		}, nil
	}
	return s
}

func TestTranscript_CaptionsShortCircuit(t *testing.T) {
	s := testService()

	var sttCalls int
	s.fetchCaptions = func(_ context.Context, _, _ string, _ []string) (*model.TranscriptResult, error) {
		return &model.TranscriptResult{
			Title:    "Captioned",
			Source:   model.SourceCaptions,
			Segments: []model.TranscriptSegment{{Text: "from captions"}},
		}, nil
	}
	s.transcribeFile = func(_ context.Context, _, _, _ string) (*model.TranscriptResult, error) {
		sttCalls++
		return nil, nil
	}

	result, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{PreferCaptions: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.SourceCaptions, result.Source)
	assert.Zero(t, sttCalls, "captions must short-circuit recognition")
}

func TestTranscript_NoCaptionsRunsRecognitionOnce(t *testing.T) {
	s := testService()

	var captionCalls, sttCalls int
	s.fetchCaptions = func(_ context.Context, _, _ string, _ []string) (*model.TranscriptResult, error) {
		captionCalls++
		return nil, nil // no usable track
	}
	base := s.transcribeFile
	s.transcribeFile = func(ctx context.Context, path, lang, size string) (*model.TranscriptResult, error) {
		sttCalls++
		return base(ctx, path, lang, size)
	}

	result, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{PreferCaptions: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, captionCalls)
	assert.Equal(t, 1, sttCalls, "recognition runs exactly once when captions are absent")
	assert.Equal(t, model.SourceWhisper, result.Source)
	assert.Equal(t, "Talk", result.Title, "recognition result carries the item title")
	assert.Equal(t, "vid1", result.SourceID)
}

func TestTranscript_CaptionsNotPreferred(t *testing.T) {
	s := testService()

	var captionCalls int
	s.fetchCaptions = func(_ context.Context, _, _ string, _ []string) (*model.TranscriptResult, error) {
		captionCalls++
		return nil, nil
	}

	_, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{}, nil)
	require.NoError(t, err)
	assert.Zero(t, captionCalls, "captions must not be consulted when not preferred")
}

func TestTranscript_CaptionErrorFallsBack(t *testing.T) {
	s := testService()
	s.fetchCaptions = func(_ context.Context, _, _ string, _ []string) (*model.TranscriptResult, error) {
		return nil, model.NewError(model.KindNetwork, "listing failed", nil)
	}

	result, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{PreferCaptions: true}, nil)
	require.NoError(t, err, "caption listing failure must not abort acquisition")
	assert.Equal(t, model.SourceWhisper, result.Source)
}

func TestTranscript_CancelledDuringCaptionFetch(t *testing.T) {
	s := testService()
	token := cancel.New()

	var downloads int
	s.fetchCaptions = func(_ context.Context, _, _ string, _ []string) (*model.TranscriptResult, error) {
		// Cancellation arrives while the caption listing is in flight.
		token.Signal()
		return nil, nil
	}
	s.downloadAudio = func(_ context.Context, _, dir string, _ *cancel.Token) (string, error) {
		downloads++
		return filepath.Join(dir, "audio.m4a"), nil
	}

	_, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{PreferCaptions: true}, token)
	require.Error(t, err)
	assert.Equal(t, model.KindCancelled, model.KindOf(err))
	assert.Zero(t, downloads, "no audio download after cancellation")
}

func TestTranscript_StaleTokenCleared(t *testing.T) {
	s := testService()
	token := cancel.New()
	token.Signal() // stale signal from a previous cancelled operation

	result, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{}, token)
	require.NoError(t, err, "fresh acquisition must reset the token at start")
	require.NotNil(t, result)
	assert.Equal(t, model.SourceWhisper, result.Source)
}

func TestTranscript_DownloadErrorPropagates(t *testing.T) {
	s := testService()
	s.downloadAudio = func(_ context.Context, _, _ string, _ *cancel.Token) (string, error) {
		return "", model.NewError(model.KindContentUnavailable, "content unavailable", nil)
	}

	_, err := s.Transcript(context.Background(), "https://youtu.be/a", Options{}, nil)
	require.Error(t, err)
	assert.Equal(t, model.KindContentUnavailable, model.KindOf(err))
}

func TestSelectTrack(t *testing.T) {
	dump := &captionDump{
		Subtitles: map[string][]captionTrack{
			"en": {{Ext: "json3", URL: "en-manual-json3"}, {Ext: "vtt", URL: "en-manual-vtt"}},
		},
		AutomaticCaptions: map[string][]captionTrack{
			"ja": {{Ext: "vtt", URL: "ja-auto-vtt"}},
			"en": {{Ext: "vtt", URL: "en-auto-vtt"}},
		},
	}

	// A manual track in a fallback language beats an automatic track in the
	// requested language.
	track, lang, ok := selectTrack(dump, []string{"ja", "en"})
	require.True(t, ok)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "en-manual-vtt", track.URL, "vtt preferred over json3")

	// Without a manual track anywhere, the requested language's auto track
	// wins.
	dump.Subtitles = nil
	track, lang, ok = selectTrack(dump, []string{"ja", "en"})
	require.True(t, ok)
	assert.Equal(t, "ja", lang)
	assert.Equal(t, "ja-auto-vtt", track.URL)

	_, _, ok = selectTrack(&captionDump{}, []string{"ja", "en"})
	assert.False(t, ok)
}

func TestCandidateLanguages(t *testing.T) {
	assert.Equal(t, []string{"fr", "ja", "en"}, candidateLanguages("fr", []string{"ja", "en"}))
	assert.Equal(t, []string{"ja", "en"}, candidateLanguages("ja", []string{"ja", "en"}), "requested language deduplicated")
	assert.Equal(t, []string{"ja", "en"}, candidateLanguages("auto", []string{"ja", "en"}), "auto is not a caption language")
	assert.Equal(t, []string{"en"}, candidateLanguages("", []string{"en"}))
}

func TestSaveTranscript(t *testing.T) {
	result := &model.TranscriptResult{
		Title: "Talk",
		Segments: []model.TranscriptSegment{
			{Start: 0, End: 2, Text: "hello"},
			{Start: 2, End: 4, Text: "world"},
		},
	}

	dir := t.TempDir()

	tests := []struct {
		format string
		want   string
	}{
		{"plain", "hello world"},
		{"txt", "[0:00] hello\n[0:02] world"},
		{"srt", "1\n00:00:00,000 --> 00:00:02,000\nhello\n\n2\n00:00:02,000 --> 00:00:04,000\nworld\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, "out."+tt.format)
		require.NoError(t, SaveTranscript(result, path, tt.format))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data), "format %s", tt.format)
	}
}

func TestSaveTranscript_UnwritablePath(t *testing.T) {
	result := &model.TranscriptResult{Segments: []model.TranscriptSegment{{Text: "x"}}}

	err := SaveTranscript(result, filepath.Join(t.TempDir(), "missing", "out.txt"), "txt")
	require.Error(t, err)
	assert.Equal(t, model.KindFileIO, model.KindOf(err))
}
