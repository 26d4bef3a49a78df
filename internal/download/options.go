package download

import (
	"math/rand"
	"time"

	"github.com/ytget/yt-scribe/internal/cancel"
)

// Timeout constants. Metadata round trips are short; media transfers get the
// long budget.
const (
	MetadataTimeout = 30 * time.Second
	DownloadTimeout = 1 * time.Hour
)

// EngineRetries is passed to the extraction engine for transient per-item
// network errors. The orchestrator adds no retry layer of its own.
const EngineRetries = "3"

// QualityPreset selects a format tier, mapped onto the engine's selector
// syntax by FormatSelector.
type QualityPreset string

const (
	QualityBest    QualityPreset = "best"
	QualityBestMP4 QualityPreset = "best_mp4"
	QualityFullHD  QualityPreset = "1080p"
	QualityHD      QualityPreset = "720p"
	QualityAudio   QualityPreset = "audio"
)

// Format selector strings for the extraction engine.
const (
	selectorBest    = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	selectorBestMP4 = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	selectorFullHD  = "bestvideo[height<=1080]+bestaudio/best[height<=1080]"
	selectorHD      = "bestvideo[height<=720]+bestaudio/best[height<=720]"
	selectorAudio   = "bestaudio/best"
)

// FormatSelector maps the preset to the engine's selector syntax. Unknown
// presets are passed through verbatim so callers may hand an explicit
// selector string to the engine.
func (q QualityPreset) FormatSelector() string {
	switch q {
	case QualityBest, "":
		return selectorBest
	case QualityBestMP4:
		return selectorBestMP4
	case QualityFullHD:
		return selectorFullHD
	case QualityHD:
		return selectorHD
	case QualityAudio:
		return selectorAudio
	default:
		return string(q)
	}
}

// Options configures one download invocation.
type Options struct {
	Quality        QualityPreset
	OutputTemplate string // empty uses "<outputDir>/%(title)s.%(ext)s"
	AudioOnly      bool
	SubtitleLangs  []string // empty requests no subtitle tracks
	Token          *cancel.Token
}

// Pacing configures the anti-throttling delay inserted before every batch
// item after the first. The window is a hand-tuned policy value from field
// use, not a correctness requirement.
type Pacing struct {
	Enabled bool
	Min     time.Duration
	Max     time.Duration
}

// DefaultPacing is the 3.0-5.0s uniform window.
func DefaultPacing() Pacing {
	return Pacing{Enabled: true, Min: 3 * time.Second, Max: 5 * time.Second}
}

// delay draws a duration uniformly from the window.
func (p Pacing) delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rand.Int63n(int64(p.Max-p.Min)))
}

// BatchOptions configures a batch download.
type BatchOptions struct {
	Options
	Pacing Pacing
}
