package transcribe

import (
	"context"
	"os"
	"os/exec"

	"github.com/ytget/yt-scribe/internal/model"
)

// FasterWhisperCommand is the CTranslate2-backed Whisper CLI.
const FasterWhisperCommand = "whisper-ctranslate2"

// beamSize trades accuracy against speed on the CTranslate2 backend.
const beamSize = "5"

// fasterWhisperEngine shells out to whisper-ctranslate2, which mirrors the
// reference CLI surface on a faster backend.
type fasterWhisperEngine struct {
	command   string
	modelSize string

	run      commandRunner
	lookPath func(string) (string, error)
}

func newFasterWhisperEngine() *fasterWhisperEngine {
	return &fasterWhisperEngine{
		command:  FasterWhisperCommand,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func (e *fasterWhisperEngine) Name() string { return model.SourceFasterWhisper }

func (e *fasterWhisperEngine) Load(_ context.Context, modelSize string) error {
	if _, err := e.lookPath(e.command); err != nil {
		return model.NewError(model.KindEngineLoad, "whisper-ctranslate2 CLI not found, install whisper-ctranslate2", err)
	}
	switch modelSize {
	case "":
		modelSize = "base"
	case "large":
		// The CTranslate2 backend only publishes versioned large models.
		modelSize = "large-v2"
	}
	e.modelSize = modelSize
	return nil
}

func (e *fasterWhisperEngine) Transcribe(ctx context.Context, audioPath string, opts Options) (*Output, error) {
	outDir, err := os.MkdirTemp("", "yt-scribe-stt-*")
	if err != nil {
		return nil, model.NewError(model.KindFileIO, "cannot create work directory", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--model", e.modelSize,
		"--beam_size", beamSize,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	}
	if opts.Language != "" && opts.Language != LanguageAuto {
		args = append(args, "--language", opts.Language)
	}
	if opts.InitialPrompt != "" {
		args = append(args, "--initial_prompt", opts.InitialPrompt)
	}

	if err := e.run(ctx, e.command, args...); err != nil {
		return nil, err
	}
	return readRunOutput(outDir, audioPath)
}
