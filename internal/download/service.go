package download

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
	"github.com/ytget/yt-scribe/internal/cancel"
	"github.com/ytget/yt-scribe/internal/model"
	"github.com/ytget/yt-scribe/internal/platform"
)

// Progress hook frequency for the extraction engine.
const progressInterval = 500 * time.Millisecond

// Error tag recorded in batch results in place of a path.
const batchErrorPrefix = "ERROR: "

// Service drives single-item, batch and playlist operations through the
// extraction engine. One Service instance must not run concurrent operations;
// create separate instances for independent workloads.
type Service struct {
	outputDir  string
	ffmpegPath string // empty when FFmpeg is unavailable
	onJob      func(*model.DownloadJob)

	mu sync.Mutex

	// Indirections over the engine calls so orchestration logic is testable
	// without network or subprocesses.
	runItem     func(ctx context.Context, url string, opts Options, job *model.DownloadJob) (string, error)
	listEntries func(ctx context.Context, url string) ([]string, error)
	resolveInfo func(ctx context.Context, url string) (*model.VideoInfo, error)
	sleep       func(d time.Duration)
}

// NewService creates a download service writing into outputDir. ffmpegPath
// may be empty; codec post-processing is then omitted rather than failing.
func NewService(outputDir, ffmpegPath string) *Service {
	s := &Service{
		outputDir:  outputDir,
		ffmpegPath: ffmpegPath,
		sleep:      time.Sleep,
	}
	s.runItem = s.runEngineDownload
	s.listEntries = s.listPlaylistEntries
	s.resolveInfo = s.VideoInfo
	return s
}

// SetJobCallback registers a callback invoked on every job state change.
// Callbacks run on the worker goroutine and must not block.
func (s *Service) SetJobCallback(callback func(*model.DownloadJob)) {
	s.onJob = callback
}

// Download downloads one URL and returns the final file path.
func (s *Service) Download(ctx context.Context, url string, opts Options) (string, error) {
	job := &model.DownloadJob{
		ID:        uuid.NewString(),
		URL:       url,
		Status:    model.JobStatusPending,
		ETASec:    -1,
		StartedAt: time.Now(),
	}
	s.notifyJob(job)

	path, err := s.runItem(ctx, url, opts, job)

	s.mu.Lock()
	if err != nil {
		if model.IsCancelled(err) {
			job.Status = model.JobStatusCancelled
		} else {
			job.Status = model.JobStatusError
		}
		job.LastError = err.Error()
	} else {
		job.Status = model.JobStatusCompleted
		job.Percent = 100
		job.OutputPath = path
	}
	job.FinishedAt = time.Now()
	s.mu.Unlock()
	s.notifyJob(job)

	return path, err
}

// DownloadBatch downloads URLs in input order. Each item's failure is
// recorded as an "ERROR: ..." entry in place of a path and never aborts
// sibling items. Cancellation is checked before each item and yields the
// results accumulated so far.
func (s *Service) DownloadBatch(ctx context.Context, urls []string, opts BatchOptions, onItem func(current, total int, url string), token *cancel.Token) []string {
	token.Reset()
	slog.Info("starting batch download",
		slog.Int("urls", len(urls)),
		slog.Bool("pacing", opts.Pacing.Enabled))

	results := make([]string, 0, len(urls))
	total := len(urls)

	for i, url := range urls {
		if token.Signalled() {
			slog.Info("batch download cancelled", slog.Int("completed", len(results)))
			break
		}

		if opts.Pacing.Enabled && i > 0 {
			s.sleep(opts.Pacing.delay())
		}

		if onItem != nil {
			onItem(i+1, total, url)
		}

		itemOpts := opts.Options
		itemOpts.Token = token
		path, err := s.Download(ctx, url, itemOpts)
		if err != nil {
			results = append(results, batchErrorPrefix+err.Error())
			slog.Error("batch item failed", slog.String("url", url), slog.Any("error", err))
			continue
		}
		results = append(results, path)
	}

	return results
}

// IsBatchError reports whether a batch result entry is an error tag rather
// than a file path.
func IsBatchError(entry string) bool {
	return strings.HasPrefix(entry, batchErrorPrefix)
}

// runEngineDownload performs one extraction-engine invocation.
func (s *Service) runEngineDownload(ctx context.Context, url string, opts Options, job *model.DownloadJob) (string, error) {
	ctx, cancelFn := context.WithTimeout(ctx, DownloadTimeout)
	defer cancelFn()

	if err := platform.CreateDirectoryIfNotExists(s.outputDir); err != nil {
		return "", model.NewError(model.KindFileIO, "cannot create output directory", err)
	}

	template := opts.OutputTemplate
	if template == "" {
		template = s.outputDir + "/%(title)s.%(ext)s"
	}

	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		ForceOverwrites().
		RestrictFilenames().
		Retries(EngineRetries).
		Output(template)

	if s.ffmpegPath != "" {
		dl = dl.FFmpegLocation(s.ffmpegPath)
	}

	if opts.AudioOnly {
		dl = dl.Format(QualityAudio.FormatSelector())
		// Re-encoding to mp3 needs FFmpeg; without it the native container
		// is kept instead of failing.
		if s.ffmpegPath != "" {
			dl = dl.ExtractAudio().AudioFormat("mp3").AudioQuality("0")
		}
	} else {
		dl = dl.Format(opts.Quality.FormatSelector())
		if s.ffmpegPath != "" {
			dl = dl.MergeOutputFormat("mp4")
		}
	}

	if len(opts.SubtitleLangs) > 0 {
		dl = dl.WriteSubs().
			WriteAutoSubs().
			SubLangs(strings.Join(opts.SubtitleLangs, ",")).
			SubFormat("srt/vtt/best")
	}

	s.mu.Lock()
	job.Status = model.JobStatusDownloading
	s.mu.Unlock()
	s.notifyJob(job)

	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		if opts.Token.Signalled() {
			cancelFn()
			return
		}
		s.updateJob(job, &update)
	})

	result, err := dl.Run(ctx, url)
	if err != nil {
		if opts.Token.Signalled() || ctx.Err() == context.Canceled {
			return "", model.NewError(model.KindCancelled, "download cancelled", err)
		}
		if ctx.Err() == context.DeadlineExceeded {
			return "", model.NewError(model.KindNetwork, "download timed out", err)
		}
		return "", model.CategorizeDownloadError(err)
	}

	return downloadedPath(result)
}

// downloadedPath extracts the final file path from the engine result.
func downloadedPath(result *ytdlp.Result) (string, error) {
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return "", model.NewError(model.KindFileIO, "engine reported no output file", err)
	}
	if info[0].Filename == nil || *info[0].Filename == "" {
		return "", model.NewError(model.KindFileIO, "engine reported no output file", nil)
	}
	return platform.ResolveDownloadedFile(*info[0].Filename)
}

// updateJob recomputes the mutable counters from one progress event.
func (s *Service) updateJob(job *model.DownloadJob, update *ytdlp.ProgressUpdate) {
	s.mu.Lock()

	// Transfer done, post-processing (merge, audio extraction) still running.
	switch update.Status {
	case ytdlp.ProgressStatusPostProcessing, ytdlp.ProgressStatusFinished:
		job.Status = model.JobStatusProcessing
	}

	job.DownloadedBytes = int64(update.DownloadedBytes)
	job.TotalBytes = int64(update.TotalBytes)

	// Percent is derived only when the engine reports a total; otherwise it
	// stays 0 and callers fall back to a rate-based indeterminate display.
	if update.TotalBytes > 0 {
		job.Percent = int(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed > 0 {
			job.BytesPerSecond = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 {
		job.ETASec = int(eta.Seconds())
	}

	if update.Info != nil && update.Info.Title != nil && *update.Info.Title != "" && job.Title == "" {
		job.Title = *update.Info.Title
	}

	s.mu.Unlock()
	s.notifyJob(job)
}

func (s *Service) notifyJob(job *model.DownloadJob) {
	if s.onJob != nil {
		s.onJob(job)
	}
}
