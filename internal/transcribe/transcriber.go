package transcribe

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/yt-scribe/internal/cancel"
	"github.com/ytget/yt-scribe/internal/model"
)

// Progress stages reported to the callback.
const (
	StageLoading      = "loading"
	StageLoaded       = "loaded"
	StageTranscribing = "transcribing"
	StageCompleted    = "completed"
)

// Progress is one progress report from a transcription run.
type Progress struct {
	Stage   string
	Percent int
	Message string
}

// Transcriber serializes recognition runs over one engine. Model loading is
// idempotent per (engine, model size); repeated runs reuse the loaded model.
// All methods are safe for concurrent use, runs execute one at a time.
type Transcriber struct {
	mu sync.Mutex

	engine      Engine
	loaded      bool
	loadedModel string
	vocabulary  string
	onProgress  func(Progress)
}

// NewTranscriber creates a transcriber for the given engine kind (an engine
// name from the model package; empty selects the standard engine).
func NewTranscriber(engineKind string) (*Transcriber, error) {
	engine, err := New(engineKind)
	if err != nil {
		return nil, err
	}
	return &Transcriber{engine: engine}, nil
}

// newWithEngine is the injection point for tests.
func newWithEngine(engine Engine) *Transcriber {
	return &Transcriber{engine: engine}
}

// EngineName returns the active engine's name.
func (t *Transcriber) EngineName() string {
	return t.engine.Name()
}

// SetCustomVocabulary sets the term list primed into decoding. Engines without
// vocabulary support ignore it.
func (t *Transcriber) SetCustomVocabulary(vocabulary string) {
	t.mu.Lock()
	t.vocabulary = strings.TrimSpace(vocabulary)
	t.mu.Unlock()
}

// SetProgressCallback registers a progress callback. Callbacks run on the
// calling goroutine and must not block.
func (t *Transcriber) SetProgressCallback(callback func(Progress)) {
	t.mu.Lock()
	t.onProgress = callback
	t.mu.Unlock()
}

// LoadModel loads the engine's model for the given size. Loading the same
// size again is a no-op; a different size triggers a reload.
func (t *Transcriber) LoadModel(ctx context.Context, modelSize string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadModelLocked(ctx, modelSize)
}

func (t *Transcriber) loadModelLocked(ctx context.Context, modelSize string) error {
	if modelSize == "" {
		modelSize = "base"
	}
	if t.loaded && t.loadedModel == modelSize {
		return nil
	}

	t.report(Progress{Stage: StageLoading, Message: "loading model " + modelSize})
	if err := t.engine.Load(ctx, modelSize); err != nil {
		return err
	}
	t.loaded = true
	t.loadedModel = modelSize
	t.report(Progress{Stage: StageLoaded, Percent: 100, Message: "model loaded"})
	return nil
}

// TranscribeFile transcribes one audio file. language may be "auto" for
// detection; modelSize selects the model, loading it on first use.
func (t *Transcriber) TranscribeFile(ctx context.Context, audioPath, language, modelSize string) (*model.TranscriptResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.loadModelLocked(ctx, modelSize); err != nil {
		return nil, err
	}

	t.report(Progress{Stage: StageTranscribing, Message: "transcribing " + filepath.Base(audioPath)})

	out, err := t.engine.Transcribe(ctx, audioPath, Options{
		Language:      language,
		InitialPrompt: t.vocabulary,
	})
	if err != nil {
		return nil, err
	}

	resolvedLang := out.Language
	if resolvedLang == "" && language != LanguageAuto {
		resolvedLang = language
	}

	t.report(Progress{Stage: StageCompleted, Percent: 100, Message: "transcription complete"})

	base := filepath.Base(audioPath)
	return &model.TranscriptResult{
		Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		Language: resolvedLang,
		Segments: out.Segments,
		Source:   t.engine.Name(),
	}, nil
}

// TranscribeFiles transcribes several audio files in order and merges the
// per-file results into one combined transcript. onItem receives
// (current, total) before each file. Cancellation mid-batch merges the
// results accumulated so far; cancellation before any result is an error.
func (t *Transcriber) TranscribeFiles(ctx context.Context, audioPaths []string, language, modelSize string, onItem func(current, total int, path string), token *cancel.Token) (*model.TranscriptResult, error) {
	token.Reset()

	total := len(audioPaths)
	results := make([]model.TranscriptResult, 0, total)

	for i, path := range audioPaths {
		if token.Signalled() {
			slog.Info("transcription cancelled", slog.Int("completed", len(results)), slog.Int("total", total))
			break
		}

		if onItem != nil {
			onItem(i+1, total, path)
		}

		result, err := t.TranscribeFile(ctx, path, language, modelSize)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	if len(results) == 0 {
		if token.Signalled() {
			return nil, model.NewError(model.KindCancelled, "transcription cancelled", nil)
		}
		return nil, model.NewError(model.KindFileIO, "no audio files to transcribe", nil)
	}

	merged := model.MergeResults(results)
	return &merged, nil
}

func (t *Transcriber) report(p Progress) {
	if t.onProgress != nil {
		t.onProgress(p)
	}
}
