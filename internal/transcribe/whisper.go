package transcribe

import (
	"context"
	"os"
	"os/exec"

	"github.com/ytget/yt-scribe/internal/model"
)

// WhisperCommand is the reference OpenAI Whisper CLI.
const WhisperCommand = "whisper"

// whisperEngine shells out to the reference Whisper CLI and parses its JSON
// output document.
type whisperEngine struct {
	command   string
	modelSize string

	run      commandRunner
	lookPath func(string) (string, error)
}

func newWhisperEngine() *whisperEngine {
	return &whisperEngine{
		command:  WhisperCommand,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func (e *whisperEngine) Name() string { return model.SourceWhisper }

// Load verifies the CLI is installed and pins the model size for subsequent
// runs.
func (e *whisperEngine) Load(_ context.Context, modelSize string) error {
	if _, err := e.lookPath(e.command); err != nil {
		return model.NewError(model.KindEngineLoad, "whisper CLI not found, install openai-whisper", err)
	}
	if modelSize == "" {
		modelSize = "base"
	}
	e.modelSize = modelSize
	return nil
}

func (e *whisperEngine) Transcribe(ctx context.Context, audioPath string, opts Options) (*Output, error) {
	outDir, err := os.MkdirTemp("", "yt-scribe-stt-*")
	if err != nil {
		return nil, model.NewError(model.KindFileIO, "cannot create work directory", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--model", e.modelSize,
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
