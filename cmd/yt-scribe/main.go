package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ytget/yt-scribe/internal/cancel"
	"github.com/ytget/yt-scribe/internal/config"
	"github.com/ytget/yt-scribe/internal/download"
	"github.com/ytget/yt-scribe/internal/media"
	"github.com/ytget/yt-scribe/internal/model"
	"github.com/ytget/yt-scribe/internal/pipeline"
	"github.com/ytget/yt-scribe/internal/platform"
	"github.com/ytget/yt-scribe/internal/transcribe"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const usageText = `yt-scribe v%s - media downloader and transcriber

Usage:
  yt-scribe download   [flags] <url ...>   download videos
  yt-scribe playlist   [flags] <url>       list or download playlist entries
  yt-scribe transcribe [flags] <url|file>  produce a transcript
  yt-scribe spaces     [flags] <url ...>   download social audio broadcasts

Run 'yt-scribe <command> -h' for command flags.
`

func main() {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usageText, version)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "download":
		err = runDownload(os.Args[2:])
	case "playlist":
		err = runPlaylist(os.Args[2:])
	case "transcribe":
		err = runTranscribe(os.Args[2:])
	case "spaces":
		err = runSpaces(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprintf(os.Stderr, usageText, version)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		fmt.Fprintf(os.Stderr, usageText, version)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// commonFlags registers the flags every subcommand shares.
func commonFlags(fs *flag.FlagSet) (cfgPath *string, verbose *bool) {
	cfgPath = fs.String("config", config.DefaultPath(), "config file path")
	verbose = fs.Bool("v", false, "verbose logging")
	return
}

// setup configures logging and loads the configuration.
func setup(cfgPath string, verbose bool) (*config.Config, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// interruptToken returns a token signalled on Ctrl-C.
func interruptToken() (*cancel.Token, func()) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	token := cancel.New()
	go func() {
		<-ctx.Done()
		token.Signal()
	}()
	return token, stop
}

// newDownloadService builds the download service from config.
func newDownloadService(cfg *config.Config) *download.Service {
	ffmpegPath, found := platform.FindFFmpeg(cfg.FFmpegPath)
	if !found {
		slog.Warn("ffmpeg not found, post-processing disabled")
	}
	return download.NewService(cfg.OutputDir, ffmpegPath)
}

// gatherURLs extracts provider URLs from the positional arguments and
// validates them against the host allow-list.
func gatherURLs(args []string, hosts []string) ([]string, error) {
	text := strings.Join(args, "\n")
	urls := platform.ExtractURLs(text)
	if len(urls) == 0 {
		urls = platform.CandidateURLs(text)
	}
	if len(urls) == 0 {
		return nil, model.NewError(model.KindMalformedURL, "no URLs given", nil)
	}
	for _, u := range urls {
		if err := platform.ValidateProviderURL(u, hosts); err != nil {
			return nil, err
		}
	}
	return urls, nil
}

func batchOptions(cfg *config.Config, opts download.Options) download.BatchOptions {
	return download.BatchOptions{
		Options: opts,
		Pacing: download.Pacing{
			Enabled: cfg.Pacing.Enabled,
			Min:     cfg.Pacing.Min(),
			Max:     cfg.Pacing.Max(),
		},
	}
}

// runBatch executes a batch download and reports per-item outcomes.
func runBatch(svc *download.Service, urls []string, opts download.BatchOptions, token *cancel.Token) error {
	svc.SetJobCallback(printJobProgress)

	onItem := func(current, total int, url string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, url)
	}
	results := svc.DownloadBatch(context.Background(), urls, opts, onItem, token)

	failures := 0
	for i, result := range results {
		if download.IsBatchError(result) {
			failures++
			fmt.Fprintf(os.Stderr, "failed: %s: %s\n", urls[i], result)
			continue
		}
		fmt.Println(result)
	}
	if len(results) < len(urls) {
		fmt.Fprintf(os.Stderr, "cancelled after %d of %d items\n", len(results), len(urls))
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d downloads failed", failures, len(results))
	}
	return nil
}

func printJobProgress(job *model.DownloadJob) {
	if job.Status != model.JobStatusDownloading {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%3d%%  %s  ETA %s ", job.Percent, job.SpeedString(), job.ETAString())
	if job.Percent >= 100 {
		fmt.Fprintln(os.Stderr)
	}
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	cfgPath, verbose := commonFlags(fs)
	quality := fs.String("quality", "", "quality preset: best, best_mp4, 1080p, 720p, audio")
	audioOnly := fs.Bool("audio", false, "audio only")
	subs := fs.String("subs", "", "comma-separated subtitle languages to save")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}
	if *quality == "" {
		*quality = cfg.Quality
	}

	urls, err := gatherURLs(fs.Args(), platform.DefaultYouTubeHosts)
	if err != nil {
		return err
	}

	token, stop := interruptToken()
	defer stop()

	opts := download.Options{
		Quality:   download.QualityPreset(*quality),
		AudioOnly: *audioOnly,
	}
	if *subs != "" {
		opts.SubtitleLangs = strings.Split(*subs, ",")
	} else {
		opts.SubtitleLangs = cfg.SubtitleLangs
	}

	return runBatch(newDownloadService(cfg), urls, batchOptions(cfg, opts), token)
}

func runPlaylist(args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ExitOnError)
	cfgPath, verbose := commonFlags(fs)
	dateFrom := fs.String("from", "", "earliest upload date (YYYY-MM-DD)")
	dateTo := fs.String("to", "", "latest upload date (YYYY-MM-DD)")
	minViews := fs.Int64("min-views", 0, "minimum view count")
	maxViews := fs.Int64("max-views", 0, "maximum view count")
	minDuration := fs.Int("min-duration", 0, "minimum duration in seconds")
	maxDuration := fs.Int("max-duration", 0, "maximum duration in seconds")
	titleContains := fs.String("title-contains", "", "title substring filter")
	titleExcludes := fs.String("title-excludes", "", "title exclusion filter")
	doDownload := fs.Bool("download", false, "download the filtered entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return model.NewError(model.KindMalformedURL, "playlist takes exactly one URL", nil)
	}
	url := fs.Arg(0)
	if err := platform.ValidateProviderURL(url, platform.DefaultYouTubeHosts); err != nil {
		return err
	}

	filter, err := buildFilter(*dateFrom, *dateTo, *minViews, *maxViews, *minDuration, *maxDuration, *titleContains, *titleExcludes)
	if err != nil {
		return err
	}

	token, stop := interruptToken()
	defer stop()

	svc := newDownloadService(cfg)
	onProgress := func(current, total int) {
		fmt.Fprintf(os.Stderr, "\rresolving %d/%d ", current, total)
	}
	videos, err := svc.FetchPlaylist(context.Background(), url, filter, onProgress, token)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	for _, v := range videos {
		fmt.Printf("%s\t%s\t%s\t%s views\n", v.ID, v.DurationString(), v.Title, v.ViewCountString())
	}
	fmt.Fprintf(os.Stderr, "%d entries passed the filter\n", len(videos))

	if !*doDownload || len(videos) == 0 {
		return nil
	}

	urls := make([]string, 0, len(videos))
	for _, v := range videos {
		urls = append(urls, v.URL)
	}
	opts := download.Options{Quality: download.QualityPreset(cfg.Quality), SubtitleLangs: cfg.SubtitleLangs}
	return runBatch(svc, urls, batchOptions(cfg, opts), token)
}

// buildFilter assembles the playlist filter from flag values, treating zero
// values as unset.
func buildFilter(from, to string, minViews, maxViews int64, minDuration, maxDuration int, contains, excludes string) (*model.PlaylistFilter, error) {
	filter := &model.PlaylistFilter{
		TitleContains: contains,
		TitleExcludes: excludes,
	}
	if from != "" {
		ts, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, model.NewError(model.KindMalformedURL, "bad -from date", err)
		}
		filter.DateFrom = &ts
	}
	if to != "" {
		ts, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, model.NewError(model.KindMalformedURL, "bad -to date", err)
		}
		filter.DateTo = &ts
	}
	if minViews > 0 {
		filter.MinViews = &minViews
	}
	if maxViews > 0 {
		filter.MaxViews = &maxViews
	}
	if minDuration > 0 {
		filter.MinDuration = &minDuration
	}
	if maxDuration > 0 {
		filter.MaxDuration = &maxDuration
	}
	return filter, nil
}

func runTranscribe(args []string) error {
	fs := flag.NewFlagSet("transcribe", flag.ExitOnError)
	cfgPath, verbose := commonFlags(fs)
	lang := fs.String("lang", "", "transcript language, or auto")
	modelSize := fs.String("model", "", "model size: tiny, base, small, medium, large")
	engine := fs.String("engine", "", "engine: whisper, faster-whisper, kotoba-whisper")
	format := fs.String("format", "txt", "output format: txt, srt, plain")
	output := fs.String("o", "", "output file (default derived from the title)")
	noCaptions := fs.Bool("no-captions", false, "skip provider captions, always run recognition")
	vocab := fs.String("vocab", "", "custom vocabulary primed into recognition")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}
	if *lang == "" {
		*lang = cfg.Language
	}
	if *modelSize == "" {
		*modelSize = pickModelSize(cfg.ModelSize)
	}
	if *engine == "" {
		*engine = cfg.Engine
	}
	if *vocab == "" {
		*vocab = cfg.CustomVocabulary
	}

	if fs.NArg() != 1 {
		return model.NewError(model.KindMalformedURL, "transcribe takes exactly one URL or file", nil)
	}
	target := fs.Arg(0)

	transcriber, err := transcribe.NewTranscriber(*engine)
	if err != nil {
		return err
	}
	transcriber.SetCustomVocabulary(*vocab)
	transcriber.SetProgressCallback(func(p transcribe.Progress) {
		fmt.Fprintf(os.Stderr, "%s %s\n", p.Stage, p.Message)
	})

	token, stop := interruptToken()
	defer stop()

	ffmpegPath, _ := platform.FindFFmpeg(cfg.FFmpegPath)
	converter := media.NewConverter(ffmpegPath)

	var result *model.TranscriptResult
	if _, statErr := os.Stat(target); statErr == nil {
		// Local audio file: skip the acquisition pipeline.
		normalized, err := converter.NormalizeForSpeech(context.Background(), target)
		if err != nil {
			return err
		}
		result, err = transcriber.TranscribeFile(context.Background(), normalized, *lang, *modelSize)
		if err != nil {
			return err
		}
	} else {
		if err := platform.ValidateProviderURL(target, platform.DefaultYouTubeHosts); err != nil {
			return err
		}
		svc := pipeline.NewService(newDownloadService(cfg), converter, transcriber)
		result, err = svc.Transcript(context.Background(), target, pipeline.Options{
			Language:        *lang,
			ModelSize:       *modelSize,
			PreferCaptions:  cfg.PreferCaptions && !*noCaptions,
			CaptionFallback: cfg.CaptionFallback,
		}, token)
		if err != nil {
			return err
		}
	}

	path := *output
	if path == "" {
		path = platform.SanitizeFilename(result.Title) + "." + transcriptExt(*format)
	}
	if err := pipeline.SaveTranscript(result, path, *format); err != nil {
		return err
	}

	slog.Info("transcript written",
		slog.String("path", path),
		slog.String("source", result.Source),
		slog.Int("segments", len(result.Segments)))
	fmt.Println(path)
	return nil
}

// pickModelSize resolves "auto" against the detected GPU.
func pickModelSize(configured string) string {
	if configured != "auto" {
		return configured
	}
	gpu := transcribe.DetectGPU()
	size := gpu.RecommendedModel()
	if gpu.Available {
		slog.Info("gpu detected", slog.String("name", gpu.Name), slog.String("vram", gpu.VRAMString()), slog.String("model", size))
	}
	return size
}

func transcriptExt(format string) string {
	if format == "srt" {
		return "srt"
	}
	return "txt"
}

func runSpaces(args []string) error {
	fs := flag.NewFlagSet("spaces", flag.ExitOnError)
	cfgPath, verbose := commonFlags(fs)
	doTranscribe := fs.Bool("transcribe", false, "transcribe the downloaded audio")
	lang := fs.String("lang", "", "transcript language, or auto")
	format := fs.String("format", "txt", "output format: txt, srt, plain")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(*cfgPath, *verbose)
	if err != nil {
		return err
	}
	if *lang == "" {
		*lang = cfg.Language
	}

	urls, err := gatherURLs(fs.Args(), platform.DefaultTwitterHosts)
	if err != nil {
		return err
	}

	token, stop := interruptToken()
	defer stop()

	svc := newDownloadService(cfg)
	opts := batchOptions(cfg, download.Options{AudioOnly: true})
	svc.SetJobCallback(printJobProgress)

	onItem := func(current, total int, url string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, url)
	}
	results := svc.DownloadBatch(context.Background(), urls, opts, onItem, token)

	audioPaths := make([]string, 0, len(results))
	for i, result := range results {
		if download.IsBatchError(result) {
			fmt.Fprintf(os.Stderr, "failed: %s: %s\n", urls[i], result)
			continue
		}
		fmt.Println(result)
		audioPaths = append(audioPaths, result)
	}

	if !*doTranscribe || len(audioPaths) == 0 {
		if len(audioPaths) == 0 && len(urls) > 0 {
			return fmt.Errorf("no broadcasts downloaded")
		}
		return nil
	}

	transcriber, err := transcribe.NewTranscriber(cfg.Engine)
	if err != nil {
		return err
	}
	transcriber.SetCustomVocabulary(cfg.CustomVocabulary)

	ffmpegPath, _ := platform.FindFFmpeg(cfg.FFmpegPath)
	converter := media.NewConverter(ffmpegPath)

	normalized := make([]string, 0, len(audioPaths))
	for _, path := range audioPaths {
		out, err := converter.NormalizeForSpeech(context.Background(), path)
		if err != nil {
			return err
		}
		normalized = append(normalized, out)
	}

	onFile := func(current, total int, path string) {
		fmt.Fprintf(os.Stderr, "transcribing %d/%d %s\n", current, total, filepath.Base(path))
	}
	result, err := transcriber.TranscribeFiles(context.Background(), normalized, *lang, pickModelSize(cfg.ModelSize), onFile, token)
	if err != nil {
		return err
	}

	path := platform.SanitizeFilename(result.Title) + "." + transcriptExt(*format)
	if err := pipeline.SaveTranscript(result, path, *format); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
