package model

import (
	"fmt"
	"time"
)

// MirrorAction names the operation propagated to a third party provider.
type MirrorAction string

const (
	UpdateVersionAction  MirrorAction = "update_subtitles"
	DeleteLanguageAction MirrorAction = "delete_subtitles"
)

// Supported reports whether the mirror engine knows how to propagate a.
func (a MirrorAction) Supported() bool {
	return a == UpdateVersionAction || a == DeleteLanguageAction
}

// Video is the subset of a platform video the widget and mirroring need.
type Video struct {
	ID            int64      `json:"-"`
	VideoID       string     `json:"video_id"`
	Title         string     `json:"title"`
	TeamSlug      string     `json:"team,omitempty"`
	OwnerUsername string     `json:"owner,omitempty"`
	URLs          []VideoURL `json:"urls"`
	CreatedAt     time.Time  `json:"created_at"`
}

// VideoURL is one externally hosted copy of a video. OwnerUsername, when set,
// names the linked account that owns that copy.
type VideoURL struct {
	ID            int64       `json:"-"`
	VideoPK       int64       `json:"-"`
	URL           string      `json:"url"`
	Type          AccountType `json:"type"`
	OwnerUsername string      `json:"owner_username,omitempty"`
	Primary       bool        `json:"primary"`
}

// SubtitleLanguage is one language track of a video.
type SubtitleLanguage struct {
	ID           int64     `json:"id"`
	VideoPK      int64     `json:"-"`
	LanguageCode string    `json:"language_code"`
	Title        string    `json:"title"`
	IsForked     bool      `json:"is_forked"`
	IsComplete   bool      `json:"is_complete"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subtitle is a single caption line. Times are milliseconds; UnsyncedTime marks a missing timing.
type Subtitle struct {
	SubtitleID string `json:"subtitle_id"`
	Text       string `json:"text"`
	StartTime  int64  `json:"start_time"`
	EndTime    int64  `json:"end_time"`
	Order      int    `json:"sub_order"`
}

const UnsyncedTime int64 = -1

func (s Subtitle) IsSynced() bool {
	return s.StartTime != UnsyncedTime && s.EndTime != UnsyncedTime && s.StartTime >= 0 && s.EndTime >= s.StartTime
}

// SubtitleVersion is an immutable snapshot of a language's subtitles.
type SubtitleVersion struct {
	ID           int64      `json:"id"`
	LanguagePK   int64      `json:"-"`
	LanguageCode string     `json:"language_code"`
	VersionNo    int        `json:"version_no"`
	IsPublic     bool       `json:"is_public"`
	Subtitles    []Subtitle `json:"subtitles"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsSynced reports whether every subtitle carries a timing. Empty versions are not synced.
func (v *SubtitleVersion) IsSynced() bool {
	if v == nil || len(v.Subtitles) == 0 {
		return false
	}
	for _, s := range v.Subtitles {
		if !s.IsSynced() {
			return false
		}
	}
	return true
}

// Mirrorable reports whether the version may leave the platform.
func (v *SubtitleVersion) Mirrorable() bool {
	return v != nil && v.IsPublic && v.IsSynced()
}

func (v *SubtitleVersion) String() string {
	return fmt.Sprintf("version #%d", v.VersionNo)
}
