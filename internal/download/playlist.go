package download

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-scribe/internal/cancel"
	"github.com/ytget/yt-scribe/internal/model"
	"github.com/ytget/yt-scribe/internal/platform"
)

// URL template for resolving playlist entries to watch pages.
const videoURLTemplate = "https://www.youtube.com/watch?v=%s"

// FetchPlaylist resolves playlist entries and returns the videos passing the
// filter, in playlist order. Listing is metadata-only; each entry then costs
// one more network round trip for full VideoInfo. onProgress receives
// (current, total) after each entry. Cancellation mid-fetch yields the
// partial result accumulated so far, not an error. A URL resolving to zero
// entries is treated as a single video.
func (s *Service) FetchPlaylist(ctx context.Context, url string, filter *model.PlaylistFilter, onProgress func(current, total int), token *cancel.Token) ([]model.VideoInfo, error) {
	entries, err := s.listEntries(ctx, url)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		info, err := s.resolveInfo(ctx, url)
		if err != nil {
			return nil, err
		}
		if onProgress != nil {
			onProgress(1, 1)
		}
		if !filter.Passes(info) {
			return []model.VideoInfo{}, nil
		}
		return []model.VideoInfo{*info}, nil
	}

	total := len(entries)
	videos := make([]model.VideoInfo, 0, total)

	for i, entryURL := range entries {
		if token.Signalled() {
			slog.Info("playlist fetch cancelled", slog.Int("resolved", i), slog.Int("total", total))
			break
		}

		info, err := s.resolveInfo(ctx, entryURL)

		if onProgress != nil {
			onProgress(i+1, total)
		}

		if err != nil {
			// Unresolvable entries (deleted, private) are skipped; the rest
			// of the playlist still resolves.
			slog.Warn("playlist entry skipped", slog.String("url", entryURL), slog.Any("error", err))
			continue
		}

		if filter.Passes(info) {
			videos = append(videos, *info)
		}
	}

	return videos, nil
}

// listPlaylistEntries lists playlist entry URLs in flattened, metadata-only
// mode. A URL without a playlist parameter yields no entries.
func (s *Service) listPlaylistEntries(ctx context.Context, url string) ([]string, error) {
	if !platform.HasPlaylistParam(url) {
		return nil, nil
	}

	playlistID := platform.ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, model.NewError(model.KindMalformedURL, "empty playlist ID", nil)
	}

	ctx, cancelFn := context.WithTimeout(ctx, MetadataTimeout)
	defer cancelFn()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, model.CategorizeDownloadError(err)
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, fmt.Sprintf(videoURLTemplate, item.VideoID))
	}
	return urls, nil
}
