package transcribe

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-scribe/internal/model"
)

// LanguageAuto requests language detection instead of a fixed language.
const LanguageAuto = "auto"

// Options configures one recognition run.
type Options struct {
	Language      string // "auto" or empty lets the engine detect
	InitialPrompt string // custom vocabulary primed into decoding
}

// Output is the raw result of one recognition run.
type Output struct {
	Segments []model.TranscriptSegment
	Language string // language the engine actually used or detected
}

// Engine is one speech recognition backend. Load must be called before
// Transcribe; implementations are not safe for concurrent use and are
// serialized by Transcriber.
type Engine interface {
	Name() string
	Load(ctx context.Context, modelSize string) error
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Output, error)
}

// New creates the engine for the given kind. Kinds are the transcript source
// identifiers (model.SourceWhisper and friends).
func New(kind string) (Engine, error) {
	switch kind {
	case model.SourceWhisper, "":
		return newWhisperEngine(), nil
	case model.SourceFasterWhisper:
		return newFasterWhisperEngine(), nil
	case model.SourceKotoba:
		return newKotobaEngine(), nil
	default:
		return nil, model.NewError(model.KindEngineLoad, "unknown recognition engine: "+kind, nil)
	}
}

// commandRunner abstracts subprocess execution so engine adapters are testable
// without the CLIs installed.
type commandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.Canceled {
			return model.NewError(model.KindCancelled, "transcription cancelled", err)
		}
		return model.NewError(model.KindEngineLoad, "recognition process failed", err)
	}
	return nil
}

// whisperJSON mirrors the JSON document the whisper-family CLIs emit.
type whisperJSON struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Text string `json:"text"`
}

// parseWhisperJSON decodes a CLI output document into segments. A document
// without segment timestamps collapses into one untimed segment.
func parseWhisperJSON(data []byte) (*Output, error) {
	var doc whisperJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.NewError(model.KindParse, "recognition output decode failed", err)
	}

	out := &Output{Language: doc.Language}
	for _, seg := range doc.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		out.Segments = append(out.Segments, model.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	if len(out.Segments) == 0 {
		if text := strings.TrimSpace(doc.Text); text != "" {
			out.Segments = append(out.Segments, model.TranscriptSegment{Text: text})
		}
	}

	return out, nil
}

// outputJSONPath is where the whisper-family CLIs write their JSON document
// for a given input file.
func outputJSONPath(outDir, audioPath string) string {
	base := filepath.Base(audioPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+".json")
}

// readRunOutput loads and parses the JSON document produced by a CLI run.
func readRunOutput(outDir, audioPath string) (*Output, error) {
	data, err := os.ReadFile(outputJSONPath(outDir, audioPath))
	if err != nil {
		return nil, model.NewError(model.KindFileIO, "recognition output missing", err)
	}
	return parseWhisperJSON(data)
}
