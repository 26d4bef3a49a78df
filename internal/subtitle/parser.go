package subtitle

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/ytget/yt-scribe/internal/model"
)

// Supported caption wire formats, in pipeline preference order.
const (
	FormatVTT   = "vtt"
	FormatSRT   = "srt"
	FormatJSON3 = "json3"
)

// vttTimestampRE matches "H:MM:SS.mmm --> H:MM:SS.mmm" cue lines. The hour
// group is optional.
var vttTimestampRE = regexp.MustCompile(`(\d+:)?(\d+):(\d+)\.(\d+)\s*-->\s*(\d+:)?(\d+):(\d+)\.(\d+)`)

// srtTimestampRE matches "HH:MM:SS,mmm --> HH:MM:SS,mmm" block timestamps.
var srtTimestampRE = regexp.MustCompile(`(\d+):(\d+):(\d+),(\d+)\s*-->\s*(\d+):(\d+):(\d+),(\d+)`)

// vttTagRE strips inline markup like <c> and <00:00:01.000>.
var vttTagRE = regexp.MustCompile(`<[^>]+>`)

// blankRunRE splits SRT documents on blank-line boundaries.
var blankRunRE = regexp.MustCompile(`\n\n+`)

// Parse dispatches raw caption data to the parser for ext. Unknown extensions
// yield no segments. Parsers never fail on individual malformed entries; a
// partial transcript is preferred over none.
func Parse(data []byte, ext string) []model.TranscriptSegment {
	switch ext {
	case FormatVTT:
		return ParseVTT(string(data))
	case FormatSRT:
		return ParseSRT(string(data))
	case FormatJSON3:
		return ParseJSON3(data)
	default:
		return nil
	}
}

// ParseVTT parses WebVTT cue blocks. Malformed timestamp lines are skipped
// without aborting the parse; multi-line cue text is joined with spaces.
func ParseVTT(content string) []model.TranscriptSegment {
	var segments []model.TranscriptSegment
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "-->") {
			continue
		}

		m := vttTimestampRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start := vttTime(m[1], m[2], m[3], m[4])
		end := vttTime(m[5], m[6], m[7], m[8])

		var textLines []string
		for i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next == "" || strings.Contains(next, "-->") {
				break
			}
			i++
			cleaned := vttTagRE.ReplaceAllString(next, "")
			if cleaned != "" {
				textLines = append(textLines, cleaned)
			}
		}

		if len(textLines) > 0 {
			segments = append(segments, model.TranscriptSegment{
				Start: start,
				End:   end,
				Text:  strings.Join(textLines, " "),
			})
		}
	}

	return segments
}

// ParseSRT parses numbered SubRip blocks. A block needs at least three lines
// (index, timestamp, text); blocks failing the timestamp regex are dropped.
func ParseSRT(content string) []model.TranscriptSegment {
	var segments []model.TranscriptSegment
	blocks := blankRunRE.Split(strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n")), -1)

	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		m := srtTimestampRE.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}

		start := clockTime(m[1], m[2], m[3], m[4])
		end := clockTime(m[5], m[6], m[7], m[8])
		text := strings.Join(lines[2:], " ")

		segments = append(segments, model.TranscriptSegment{Start: start, End: end, Text: text})
	}

	return segments
}

// json3Document is the structured event list served for auto captions.
type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64      `json:"tStartMs"`
	DurationMs int64      `json:"dDurationMs"`
	Segs       []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 parses the JSON3 event list. A parse failure of the whole
// document yields an empty sequence; events with empty text are dropped.
func ParseJSON3(data []byte) []model.TranscriptSegment {
	var doc json3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	var segments []model.TranscriptSegment
	for _, event := range doc.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, seg := range event.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}

		start := float64(event.StartMs) / 1000
		segments = append(segments, model.TranscriptSegment{
			Start: start,
			End:   start + float64(event.DurationMs)/1000,
			Text:  text,
		})
	}

	return segments
}

// vttTime converts an optional "H:" prefix plus MM:SS.mmm groups to seconds.
func vttTime(hours, minutes, seconds, millis string) float64 {
	h := 0
	if hours != "" {
		h, _ = strconv.Atoi(strings.TrimSuffix(hours, ":"))
	}
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Pad or truncate to millisecond precision ("5" means 500ms).
	padded := (millis + "000")[:3]
	ms, _ := strconv.Atoi(padded)

	return float64(h*3600+m*60+s) + float64(ms)/1000
}

func clockTime(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	return float64(h*3600+m*60+s) + float64(ms)/1000
}
