package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-scribe/internal/model"
	"github.com/ytget/yt-scribe/internal/subtitle"
)

// TrackFetchTimeout bounds the HTTP fetch of one caption track asset.
const TrackFetchTimeout = 30 * time.Second

// Caption formats in preference order.
var captionFormatOrder = []string{subtitle.FormatVTT, subtitle.FormatSRT, subtitle.FormatJSON3}

// captionTrack is one downloadable caption rendition.
type captionTrack struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// captionDump mirrors the caption-related fields of the engine's single-JSON
// dump.
type captionDump struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Subtitles         map[string][]captionTrack `json:"subtitles"`
	AutomaticCaptions map[string][]captionTrack `json:"automatic_captions"`
}

// listCaptions fetches the caption track listing for one URL.
func listCaptions(ctx context.Context, url string) (*captionDump, error) {
	ctx, cancelFn := context.WithTimeout(ctx, TrackFetchTimeout)
	defer cancelFn()

	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		SkipDownload().
		DumpSingleJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, model.CategorizeDownloadError(err)
	}

	var dump captionDump
	if err := json.Unmarshal([]byte(result.Stdout), &dump); err != nil {
		return nil, model.NewError(model.KindParse, "caption listing decode failed", err)
	}
	return &dump, nil
}

// selectTrack picks the best caption track. Human tracks win over automatic
// ones across all candidate languages; within a track list the format
// preference is vtt, then srt, then json3.
func selectTrack(dump *captionDump, languages []string) (captionTrack, string, bool) {
	for _, lang := range languages {
		if track, ok := pickFormat(dump.Subtitles[lang]); ok {
			return track, lang, true
		}
	}
	for _, lang := range languages {
		if track, ok := pickFormat(dump.AutomaticCaptions[lang]); ok {
			return track, lang, true
		}
	}
	return captionTrack{}, "", false
}

func pickFormat(tracks []captionTrack) (captionTrack, bool) {
	for _, want := range captionFormatOrder {
		for _, track := range tracks {
			if track.Ext == want {
				return track, true
			}
		}
	}
	return captionTrack{}, false
}

// candidateLanguages builds the ordered language preference: the requested
// language first, then the configured fallbacks, deduplicated.
func candidateLanguages(requested string, fallback []string) []string {
	seen := make(map[string]bool)
	langs := make([]string, 0, 1+len(fallback))
	for _, lang := range append([]string{requested}, fallback...) {
		if lang == "" || lang == "auto" || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	return langs
}

// fetchTrackContent downloads one caption track asset.
func fetchTrackContent(ctx context.Context, url string) ([]byte, error) {
	ctx, cancelFn := context.WithTimeout(ctx, TrackFetchTimeout)
	defer cancelFn()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.NewError(model.KindMalformedURL, "bad caption track URL", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, model.NewError(model.KindNetwork, "caption track fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewError(model.KindNetwork, "caption track fetch failed: "+resp.Status, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewError(model.KindNetwork, "caption track read failed", err)
	}
	return data, nil
}

// fetchCaptionTranscript acquires a caption-based transcript for one URL.
// Returns (nil, nil) when the item has no usable caption track; errors are
// reserved for listing failures.
func fetchCaptionTranscript(ctx context.Context, url, language string, fallback []string) (*model.TranscriptResult, error) {
	dump, err := listCaptions(ctx, url)
	if err != nil {
		return nil, err
	}

	track, actualLang, ok := selectTrack(dump, candidateLanguages(language, fallback))
	if !ok {
		return nil, nil
	}

	content, err := fetchTrackContent(ctx, track.URL)
	if err != nil {
		return nil, err
	}

	segments := subtitle.Parse(content, track.Ext)
	if len(segments) == 0 {
		return nil, nil
	}

	return &model.TranscriptResult{
		Title:    dump.Title,
		SourceID: dump.ID,
		Language: actualLang,
		Segments: segments,
		Source:   model.SourceCaptions,
	}, nil
}
