package download

import (
	"context"
	"encoding/json"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ytget/yt-scribe/internal/model"
)

// videoMetadata mirrors the fields of the engine's single-JSON dump this app
// consumes. Everything else in the dump is ignored.
type videoMetadata struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	WebpageURL  string               `json:"webpage_url"`
	Duration    float64              `json:"duration"`
	ViewCount   int64                `json:"view_count"`
	UploadDate  string               `json:"upload_date"`
	Thumbnail   string               `json:"thumbnail"`
	Channel     string               `json:"channel"`
	Uploader    string               `json:"uploader"`
	Description string               `json:"description"`
	Formats     []model.StreamFormat `json:"formats"`
}

// toVideoInfo converts the metadata dump into the immutable VideoInfo.
// requestURL is used when the dump carries no canonical URL.
func (m *videoMetadata) toVideoInfo(requestURL string) *model.VideoInfo {
	url := m.WebpageURL
	if url == "" {
		url = requestURL
	}
	channel := m.Channel
	if channel == "" {
		channel = m.Uploader
	}
	return &model.VideoInfo{
		ID:          m.ID,
		Title:       m.Title,
		URL:         url,
		Duration:    int(m.Duration),
		ViewCount:   m.ViewCount,
		UploadDate:  m.UploadDate,
		Thumbnail:   m.Thumbnail,
		Channel:     channel,
		Description: m.Description,
		Formats:     m.Formats,
	}
}

// VideoInfo fetches full metadata for one URL. One network round trip with
// the short metadata timeout.
func (s *Service) VideoInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	ctx, cancelFn := context.WithTimeout(ctx, MetadataTimeout)
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

	var meta videoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &meta); err != nil {
		return nil, model.NewError(model.KindParse, "metadata decode failed", err)
	}

	return meta.toVideoInfo(url), nil
}

// AvailableFormats lists the selectable stream variants for one URL.
func (s *Service) AvailableFormats(ctx context.Context, url string) ([]model.FormatOption, error) {
	info, err := s.VideoInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	return model.FormatOptionsFromVideo(info), nil
}
