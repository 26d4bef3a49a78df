package model

import (
	"fmt"
	"strconv"
	"time"
)

// Upload date wire format used by the provider metadata (e.g. "20240131").
const uploadDateLayout = "20060102"

// StreamFormat is one raw stream entry from provider metadata. Values are
// copied verbatim from the extraction engine output.
type StreamFormat struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	FormatNote string  `json:"format_note"`
}

// VideoInfo holds provider metadata for a single media item. Immutable once
// constructed from an extraction-engine response.
type VideoInfo struct {
	ID          string
	Title       string
	URL         string
	Duration    int // seconds
	ViewCount   int64
	UploadDate  string // YYYYMMDD, empty when unknown
	Thumbnail   string
	Channel     string
	Description string
	Formats     []StreamFormat
}

// UploadDatetime parses the provider's YYYYMMDD upload date. The second return
// value is false when the date is missing or malformed.
func (v *VideoInfo) UploadDatetime() (time.Time, bool) {
	if len(v.UploadDate) != len(uploadDateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(uploadDateLayout, v.UploadDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DurationString formats the duration as H:MM:SS, or M:SS for durations under
// one hour.
func (v *VideoInfo) DurationString() string {
	hours := v.Duration / 3600
	minutes := (v.Duration % 3600) / 60
	seconds := v.Duration % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ViewCountString renders the view count with K/M suffixes.
func (v *VideoInfo) ViewCountString() string {
	switch {
	case v.ViewCount >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v.ViewCount)/1_000_000)
	case v.ViewCount >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v.ViewCount)/1_000)
	default:
		return strconv.FormatInt(v.ViewCount, 10)
	}
}

// FormatOption describes one downloadable stream variant derived from
// VideoInfo.Formats. Read-only.
type FormatOption struct {
	FormatID     string
	Ext          string
	Resolution   string
	FPS          float64 // 0 when unknown
	VCodec       string
	ACodec       string
	Filesize     int64 // 0 when unknown
	QualityLabel string
}

// FormatOptionsFromVideo derives the selectable stream variants from raw
// provider formats. Entries with neither audio nor video are skipped.
func FormatOptionsFromVideo(v *VideoInfo) []FormatOption {
	options := make([]FormatOption, 0, len(v.Formats))
	for _, f := range v.Formats {
		if f.VCodec == "none" && f.ACodec == "none" {
			continue
		}

		resolution := f.Resolution
		if resolution == "" {
			resolution = "N/A"
		}
		if f.Height > 0 {
			width := "?"
			if f.Width > 0 {
				width = strconv.Itoa(f.Width)
			}
			resolution = fmt.Sprintf("%sx%d", width, f.Height)
		}

		label := f.FormatNote
		if label == "" && f.Height > 0 {
			label = fmt.Sprintf("%dp", f.Height)
		}

		options = append(options, FormatOption{
			FormatID:     f.FormatID,
			Ext:          f.Ext,
			Resolution:   resolution,
			FPS:          f.FPS,
			VCodec:       f.VCodec,
			ACodec:       f.ACodec,
			Filesize:     f.Filesize,
			QualityLabel: label,
		})
	}
	return options
}
