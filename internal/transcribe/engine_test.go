package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-scribe/internal/model"
)

func TestParseWhisperJSON(t *testing.T) {
	data := []byte(`{
		"language": "ja",
		"segments": [
			{"start": 0.0, "end": 2.5, "text": " こんにちは "},
			{"start": 2.5, "end": 4.0, "text": "world"},
			{"start": 4.0, "end": 5.0, "text": "   "}
		],
		"text": "こんにちは world"
	}`)

	out, err := parseWhisperJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "ja", out.Language)
	require.Len(t, out.Segments, 2, "whitespace-only segments are dropped")
	assert.Equal(t, "こんにちは", out.Segments[0].Text)
	assert.Equal(t, 2.5, out.Segments[0].End)
}

func TestParseWhisperJSON_TextFallback(t *testing.T) {
	out, err := parseWhisperJSON([]byte(`{"language": "en", "text": "no timestamps here"}`))
	require.NoError(t, err)
	require.Len(t, out.Segments, 1)
	assert.Equal(t, "no timestamps here", out.Segments[0].Text)
}

func TestParseWhisperJSON_Invalid(t *testing.T) {
	_, err := parseWhisperJSON([]byte(`not json`))
	require.Error(t, err)
	assert.Equal(t, model.KindParse, model.KindOf(err))
}

func TestOutputJSONPath(t *testing.T) {
	got := outputJSONPath("/tmp/work", "/downloads/talk.m4a")
	assert.Equal(t, filepath.Join("/tmp/work", "talk.json"), got)
}

func TestWhisperEngine_BuildsExpectedCommand(t *testing.T) {
	var gotName string
	var gotArgs []string

	e := newWhisperEngine()
	e.lookPath = func(string) (string, error) { return "/usr/bin/whisper", nil }
	e.run = func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		// Fabricate the output document the CLI would write.
		outDir := args[indexOfFlag(t, args, "--output_dir")+1]
		return os.WriteFile(outputJSONPath(outDir, args[0]),
			[]byte(`{"language":"ja","segments":[{"start":0,"end":1,"text":"ok"}]}`), 0o644)
	}

	require.NoError(t, e.Load(context.Background(), "small"))

	out, err := e.Transcribe(context.Background(), "/downloads/talk.m4a", Options{
		Language:      "ja",
		InitialPrompt: "Kubernetes",
	})
	require.NoError(t, err)
	require.Len(t, out.Segments, 1)

	assert.Equal(t, WhisperCommand, gotName)
	assert.Equal(t, "/downloads/talk.m4a", gotArgs[0])
	assert.Contains(t, gotArgs, "--language")
	assert.Contains(t, gotArgs, "--initial_prompt")
	assert.Contains(t, gotArgs, "small")
}

func TestWhisperEngine_AutoLanguageOmitsFlag(t *testing.T) {
	var gotArgs []string

	e := newWhisperEngine()
	e.lookPath = func(string) (string, error) { return "/usr/bin/whisper", nil }
	e.run = func(_ context.Context, _ string, args ...string) error {
		gotArgs = args
		outDir := args[indexOfFlag(t, args, "--output_dir")+1]
		return os.WriteFile(outputJSONPath(outDir, args[0]),
			[]byte(`{"language":"en","segments":[{"start":0,"end":1,"text":"ok"}]}`), 0o644)
	}

	require.NoError(t, e.Load(context.Background(), "base"))

	out, err := e.Transcribe(context.Background(), "/downloads/talk.m4a", Options{Language: LanguageAuto})
	require.NoError(t, err)

	assert.NotContains(t, gotArgs, "--language", "auto must let the engine detect")
	assert.Equal(t, "en", out.Language)
}

func TestFasterWhisperEngine_MapsLargeModel(t *testing.T) {
	e := newFasterWhisperEngine()
	e.lookPath = func(string) (string, error) { return "/usr/bin/whisper-ctranslate2", nil }

	require.NoError(t, e.Load(context.Background(), "large"))
	assert.Equal(t, "large-v2", e.modelSize)

	require.NoError(t, e.Load(context.Background(), "medium"))
	assert.Equal(t, "medium", e.modelSize)
}

func TestKotobaEngine_PinsModelAndIgnoresVocabulary(t *testing.T) {
	var gotArgs []string

	e := newKotobaEngine()
	e.lookPath = func(string) (string, error) { return "/usr/bin/whisper-ctranslate2", nil }
	e.run = func(_ context.Context, _ string, args ...string) error {
		gotArgs = args
		outDir := args[indexOfFlag(t, args, "--output_dir")+1]
		return os.WriteFile(outputJSONPath(outDir, args[0]),
			[]byte(`{"segments":[{"start":0,"end":1,"text":"了解"}]}`), 0o644)
	}

	require.NoError(t, e.Load(context.Background(), "large"))

	out, err := e.Transcribe(context.Background(), "/downloads/space.m4a", Options{
		Language:      LanguageAuto,
		InitialPrompt: "専門用語",
	})
	require.NoError(t, err, "unsupported vocabulary must not fail the run")

	assert.Contains(t, gotArgs, KotobaModel)
	assert.NotContains(t, gotArgs, "--initial_prompt")
	assert.Equal(t, "ja", out.Language)
}

func TestEngineLoad_MissingCLI(t *testing.T) {
	e := newWhisperEngine()
	e.lookPath = func(string) (string, error) { return "", os.ErrNotExist }

	err := e.Load(context.Background(), "base")
	require.Error(t, err)
	assert.Equal(t, model.KindEngineLoad, model.KindOf(err))
}

func indexOfFlag(t *testing.T, args []string, flag string) int {
	t.Helper()
	for i, a := range args {
		if a == flag {
			return i
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return -1
}
