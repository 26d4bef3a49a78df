package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ytget/yt-scribe/internal/cancel"
	"github.com/ytget/yt-scribe/internal/download"
	"github.com/ytget/yt-scribe/internal/media"
	"github.com/ytget/yt-scribe/internal/model"
	"github.com/ytget/yt-scribe/internal/transcribe"
)

// Options configures one transcript acquisition.
type Options struct {
	Language        string   // "auto" lets the recognition engine detect
	ModelSize       string   // recognition model size
	PreferCaptions  bool     // try provider captions before speech-to-text
	CaptionFallback []string // language fallback order after the requested one
}

// Service acquires transcripts, captions first, speech-to-text as fallback.
type Service struct {
	downloads   *download.Service
	converter   *media.Converter
	transcriber *transcribe.Transcriber

	// Indirections over the stages so orchestration is testable without
	// network, FFmpeg or the recognition CLIs.
	fetchCaptions  func(ctx context.Context, url, language string, fallback []string) (*model.TranscriptResult, error)
	resolveInfo    func(ctx context.Context, url string) (*model.VideoInfo, error)
	downloadAudio  func(ctx context.Context, url, dir string, token *cancel.Token) (string, error)
	normalizeAudio func(ctx context.Context, path string) (string, error)
	transcribeFile func(ctx context.Context, path, language, modelSize string) (*model.TranscriptResult, error)
}

// NewService wires the acquisition pipeline.
func NewService(downloads *download.Service, converter *media.Converter, transcriber *transcribe.Transcriber) *Service {
	s := &Service{
		downloads:   downloads,
		converter:   converter,
		transcriber: transcriber,
	}
	s.fetchCaptions = fetchCaptionTranscript
	s.resolveInfo = downloads.VideoInfo
	s.downloadAudio = s.engineAudioDownload
	s.normalizeAudio = converter.NormalizeForSpeech
	s.transcribeFile = transcriber.TranscribeFile
	return s
}

// Transcript acquires a transcript for one URL. With PreferCaptions set, a
// non-empty caption track short-circuits; otherwise audio is downloaded into a
// temporary workspace, normalized and run through the recognition engine.
func (s *Service) Transcript(ctx context.Context, url string, opts Options, token *cancel.Token) (*model.TranscriptResult, error) {
	token.Reset()

	if opts.PreferCaptions {
		result, err := s.fetchCaptions(ctx, url, opts.Language, opts.CaptionFallback)
		if err != nil {
			// Caption listing failure is not fatal; recognition can still run.
			slog.Warn("caption fetch failed, falling back to speech-to-text",
				slog.String("url", url), slog.Any("error", err))
		}
		if result != nil && len(result.Segments) > 0 {
			return result, nil
		}
	}

	if token.Signalled() {
		return nil, model.NewError(model.KindCancelled, "transcript acquisition cancelled", nil)
	}

	info, err := s.resolveInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	workDir := filepath.Join(os.TempDir(), "yt-scribe-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, model.NewError(model.KindFileIO, "cannot create work directory", err)
	}
	defer os.RemoveAll(workDir)

	audioPath, err := s.downloadAudio(ctx, url, workDir, token)
	if err != nil {
		return nil, err
	}

	normalized, err := s.normalizeAudio(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	result, err := s.transcribeFile(ctx, normalized, opts.Language, opts.ModelSize)
	if err != nil {
		return nil, err
	}

	result.Title = info.Title
	result.SourceID = info.ID
	return result, nil
}

// engineAudioDownload pulls bestaudio for one URL into dir.
func (s *Service) engineAudioDownload(ctx context.Context, url, dir string, token *cancel.Token) (string, error) {
	return s.downloads.Download(ctx, url, download.Options{
		AudioOnly:      true,
		OutputTemplate: filepath.Join(dir, "audio.%(ext)s"),
		Token:          token,
	})
}

// SaveTranscript writes a transcript to path in the given format: "srt",
// "txt" (timestamped) or "plain". Unknown formats fall back to timestamped
// text.
func SaveTranscript(result *model.TranscriptResult, path, format string) error {
	var content string
	switch format {
	case "srt":
		content = result.ToSRT()
	case "plain":
		content = result.ToPlainText()
	default:
		content = result.ToTimestampedText()
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return model.NewError(model.KindFileIO, "cannot write transcript", err)
	}
	return nil
}
