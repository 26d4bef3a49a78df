package transcribe

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ytget/yt-scribe/internal/model"
)

// KotobaModel is the Japanese-specialized recognition model, in its
// CTranslate2 conversion so the whisper-ctranslate2 CLI can run it.
const KotobaModel = "kotoba-tech/kotoba-whisper-v2.0-faster"

// kotobaLanguage is fixed; the model is Japanese-only.
const kotobaLanguage = "ja"

// kotobaEngine runs the Japanese-specialized model through the
// whisper-ctranslate2 CLI. It pins its own model and ignores the configured
// model size.
type kotobaEngine struct {
	command string

	run      commandRunner
	lookPath func(string) (string, error)
}

func newKotobaEngine() *kotobaEngine {
	return &kotobaEngine{
		command:  FasterWhisperCommand,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func (e *kotobaEngine) Name() string { return model.SourceKotoba }

// Load verifies the CLI is installed. modelSize is ignored; the engine always
// uses KotobaModel.
func (e *kotobaEngine) Load(_ context.Context, _ string) error {
	if _, err := e.lookPath(e.command); err != nil {
		return model.NewError(model.KindEngineLoad, "whisper-ctranslate2 CLI not found, install whisper-ctranslate2", err)
	}
	return nil
}

func (e *kotobaEngine) Transcribe(ctx context.Context, audioPath string, opts Options) (*Output, error) {
	outDir, err := os.MkdirTemp("", "yt-scribe-stt-*")
	if err != nil {
		return nil, model.NewError(model.KindFileIO, "cannot create work directory", err)
	}
	defer os.RemoveAll(outDir)

	if opts.InitialPrompt != "" {
		// Vocabulary priming is not supported by this model; the run still
		// proceeds without it.
		slog.Warn("custom vocabulary ignored", slog.String("engine", e.Name()))
	}

	args := []string{
		audioPath,
		"--model", KotobaModel,
		"--language", kotobaLanguage,
		"--beam_size", beamSize,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	}

	if err := e.run(ctx, e.command, args...); err != nil {
		return nil, err
	}

	out, err := readRunOutput(outDir, audioPath)
	if err != nil {
		return nil, err
	}
	out.Language = kotobaLanguage
	return out, nil
}
