package model

import (
	"strings"
	"time"
)

// PlaylistFilter is an optional-field predicate bag applied to resolved
// playlist entries. Every field is independently optional; an unset field
// imposes no constraint. Passes is pure and side-effect free.
type PlaylistFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	MinViews      *int64
	MaxViews      *int64
	MinDuration   *int // seconds
	MaxDuration   *int // seconds
	TitleContains string
	TitleExcludes string
}

// IsZero reports whether no constraint is set.
func (f *PlaylistFilter) IsZero() bool {
	return f == nil ||
		(f.DateFrom == nil && f.DateTo == nil &&
			f.MinViews == nil && f.MaxViews == nil &&
			f.MinDuration == nil && f.MaxDuration == nil &&
			f.TitleContains == "" && f.TitleExcludes == "")
}

// Passes evaluates the filter against one video. Predicates short-circuit on
// the first failing condition. A date-range constraint requires a known upload
// date; videos without one are rejected when either bound is set.
func (f *PlaylistFilter) Passes(v *VideoInfo) bool {
	if f == nil {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil {
		uploaded, ok := v.UploadDatetime()
		if !ok {
			return false
		}
		if f.DateFrom != nil && uploaded.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && uploaded.After(*f.DateTo) {
			return false
		}
	}

	if f.MinViews != nil && v.ViewCount < *f.MinViews {
		return false
	}
	if f.MaxViews != nil && v.ViewCount > *f.MaxViews {
		return false
	}

	if f.MinDuration != nil && v.Duration < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && v.Duration > *f.MaxDuration {
		return false
	}

	title := strings.ToLower(v.Title)
	if f.TitleContains != "" && !strings.Contains(title, strings.ToLower(f.TitleContains)) {
		return false
	}
	if f.TitleExcludes != "" && strings.Contains(title, strings.ToLower(f.TitleExcludes)) {
		return false
	}

	return true
}
