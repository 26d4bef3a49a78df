package platform

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ytget/yt-scribe/internal/model"
)

// Host allow-lists. Validation is a safety boundary: it stops the extraction
// engine from being pointed at arbitrary hosts.
var (
	DefaultYouTubeHosts = []string{
		"youtube.com",
		"www.youtube.com",
		"youtu.be",
		"m.youtube.com",
		"music.youtube.com",
	}

	DefaultTwitterHosts = []string{
		"twitter.com",
		"www.twitter.com",
		"x.com",
		"www.x.com",
	}
)

// URL parameters
const (
	PlaylistURLParam       = "list="
	PlaylistParamSeparator = "&"
)

// Provider URL patterns recognized in free text: watch pages, short links,
// playlists and shorts.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`https?://youtu\.be/[\w-]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/playlist\?list=[\w-]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/shorts/[\w-]+`),
}

// ValidateProviderURL checks that rawURL is an http(s) URL whose host exactly
// matches the allow-list (case-insensitive) and that carries a path or query.
// Returns a KindMalformedURL or KindUnsupportedHost error on rejection.
func ValidateProviderURL(rawURL string, allowedHosts []string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.NewError(model.KindMalformedURL, "invalid URL", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return model.NewError(model.KindMalformedURL, "URL scheme must be http or https", nil)
	}

	host := strings.ToLower(parsed.Host)
	allowed := false
	for _, h := range allowedHosts {
		if host == strings.ToLower(h) {
			allowed = true
			break
		}
	}
	if !allowed {
		return model.NewError(model.KindUnsupportedHost, "host not supported: "+host, nil)
	}

	if (parsed.Path == "" || parsed.Path == "/") && parsed.RawQuery == "" {
		return model.NewError(model.KindMalformedURL, "URL has no path or query", nil)
	}

	return nil
}

// ExtractURLs finds provider URLs in free text, deduplicating while
// preserving first-seen order.
func ExtractURLs(text string) []string {
	var urls []string
	seen := make(map[string]struct{})
	for _, pattern := range urlPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			urls = append(urls, match)
		}
	}
	return urls
}

// CandidateURLs extracts provider URLs from text; when no pattern matches,
// each non-blank line is treated as a literal URL.
func CandidateURLs(text string) []string {
	if urls := ExtractURLs(text); len(urls) > 0 {
		return urls
	}

	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}

// HasPlaylistParam reports whether the URL carries a playlist parameter.
func HasPlaylistParam(rawURL string) bool {
	return strings.Contains(rawURL, PlaylistURLParam)
}

// ExtractPlaylistID extracts the playlist ID from watch and playlist URL
// forms. Returns "" when the URL has no playlist parameter.
func ExtractPlaylistID(rawURL string) string {
	if !strings.Contains(rawURL, PlaylistURLParam) {
		return ""
	}
	parts := strings.Split(rawURL, PlaylistURLParam)
	if len(parts) < 2 {
		return ""
	}
	id := parts[1]
	if idx := strings.Index(id, PlaylistParamSeparator); idx >= 0 {
		id = id[:idx]
	}
	return id
}
