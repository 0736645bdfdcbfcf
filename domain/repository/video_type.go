package repository

import (
	"context"

	"subtitle-widget/domain/model"
)

// IVideoType is a provider specific handler resolved from a video URL.
type IVideoType interface {
	Name() string
	AccountType() model.AccountType
}

// ISubtitleMirror is implemented by video types that can receive subtitle changes.
type ISubtitleMirror interface {
	UpdateSubtitles(ctx context.Context, version *model.SubtitleVersion, account *model.ThirdPartyAccount) error
	DeleteSubtitles(ctx context.Context, language *model.SubtitleLanguage, account *model.ThirdPartyAccount) error
}

type IVideoTypeRegistry interface {
	VideoTypeForURL(url string) (IVideoType, error)
}
