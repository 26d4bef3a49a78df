package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so a presentation layer can show a categorized
// explanation without matching on message text.
type Kind string

const (
	// KindMalformedURL means the URL could not be parsed or has no usable path
	KindMalformedURL Kind = "malformed_url"

	// KindUnsupportedHost means the URL host is not on the provider allow-list
	KindUnsupportedHost Kind = "unsupported_host"

	// KindNetwork covers connection failures and timeouts
	KindNetwork Kind = "network"

	// KindContentUnavailable covers private, age-restricted or deleted content
	KindContentUnavailable Kind = "content_unavailable"

	// KindEngineLoad means a speech-to-text engine failed to load
	KindEngineLoad Kind = "engine_load"

	// KindParse means a subtitle asset could not be parsed (non-fatal)
	KindParse Kind = "parse"

	// KindCancelled means the operation was interrupted by the caller
	KindCancelled Kind = "cancelled"

	// KindFileIO covers local filesystem failures
	KindFileIO Kind = "file_io"
)

// Error attaches a Kind to an underlying error. The original message is
// preserved so operators still see what the engine reported.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// NewError creates a classified error wrapping err (err may be nil).
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Error returns the string representation of the classified error.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsCancelled reports whether err represents caller-requested cancellation.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}

// Message fragments yt-dlp uses for unavailable content. The engine has no
// structured error codes, so categorization is text-based.
var unavailableMarkers = []string{
	"private video",
	"video unavailable",
	"this video is unavailable",
	"age-restricted",
	"age restricted",
	"sign in to confirm your age",
	"members-only",
	"has been removed",
	"account associated with this video has been terminated",
}

var networkMarkers = []string{
	"timed out",
	"timeout",
	"connection refused",
	"connection reset",
	"temporary failure",
	"no such host",
	"network is unreachable",
	"unable to download",
}

// CategorizeDownloadError maps an extraction-engine failure onto the taxonomy.
// Unrecognized failures are treated as network errors, matching how the engine
// itself retries them.
func CategorizeDownloadError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(msg, marker) {
			return NewError(KindContentUnavailable, "content unavailable", err)
		}
	}
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return NewError(KindNetwork, "network failure", err)
		}
	}
	return NewError(KindNetwork, "download failed", err)
}
