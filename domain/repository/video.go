package repository

import (
	"context"

	"subtitle-widget/domain/model"
)

// IVideo gives the widget access to videos, their URLs and subtitle history.
type IVideo interface {
	GetByVideoID(ctx context.Context, videoID string) (*model.Video, error)
	GetByURL(ctx context.Context, url string) (*model.Video, error)

	ListLanguages(ctx context.Context, videoPK int64) ([]model.SubtitleLanguage, error)
	GetLanguage(ctx context.Context, videoPK int64, languageCode string) (*model.SubtitleLanguage, error)
	// SaveLanguage creates the language when ID is zero, otherwise updates it.
	SaveLanguage(ctx context.Context, language *model.SubtitleLanguage) error
	DeleteLanguage(ctx context.Context, languagePK int64) error

	// LatestVersion returns (nil, nil) when the language has no versions yet.
	LatestVersion(ctx context.Context, languagePK int64) (*model.SubtitleVersion, error)
	GetVersion(ctx context.Context, languagePK int64, versionNo int) (*model.SubtitleVersion, error)
	// CreateVersion assigns the next version number to version.
	CreateVersion(ctx context.Context, version *model.SubtitleVersion) error
}
