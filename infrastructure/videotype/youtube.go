package videotype

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"subtitle-widget/domain/model"
	"subtitle-widget/infrastructure/clients/youtube"
	"subtitle-widget/infrastructure/logger"
)

// YouTubeVideoType mirrors subtitles to the caption tracks of one YouTube video.
type YouTubeVideoType struct {
	videoID  string
	captions youtube.Factory
}

func NewYouTubeVideoType(videoID string, captions youtube.Factory) *YouTubeVideoType {
	return &YouTubeVideoType{videoID: videoID, captions: captions}
}

func (t *YouTubeVideoType) Name() string                   { return "Youtube" }
func (t *YouTubeVideoType) AccountType() model.AccountType { return model.AccountTypeYouTube }
func (t *YouTubeVideoType) VideoID() string                { return t.videoID }

// UpdateSubtitles replaces the caption track of the version's language, creating it if needed.
func (t *YouTubeVideoType) UpdateSubtitles(ctx context.Context, version *model.SubtitleVersion, account *model.ThirdPartyAccount) error {
	if version == nil {
		return errors.New("no subtitle version to push")
	}
	svc, err := t.service(ctx, account)
	if err != nil {
		return err
	}
	tracks, err := svc.ListCaptions(ctx, t.videoID)
	if err != nil {
		return err
	}

	body, err := RenderSRT(version.Subtitles)
	if err != nil {
		return err
	}
	log := logger.GetLogger().
		WithField("videoId", t.videoID).
		WithField("language", version.LanguageCode).
		WithField("account", account.String())

	for _, track := range tracks {
		if strings.EqualFold(track.Language, version.LanguageCode) {
			log.WithField("caption", track.ID).Info("Updating YouTube caption track")
			return svc.UpdateCaption(ctx, track, strings.NewReader(body))
		}
	}
	log.Info("Inserting YouTube caption track")
	return svc.InsertCaption(ctx, youtube.CaptionTrack{
		VideoID:  t.videoID,
		Language: version.LanguageCode,
	}, strings.NewReader(body))
}

// DeleteSubtitles removes every caption track of the language. A missing track is not an error.
func (t *YouTubeVideoType) DeleteSubtitles(ctx context.Context, language *model.SubtitleLanguage, account *model.ThirdPartyAccount) error {
	if language == nil {
		return errors.New("no subtitle language to delete")
	}
	svc, err := t.service(ctx, account)
	if err != nil {
		return err
	}
	tracks, err := svc.ListCaptions(ctx, t.videoID)
	if err != nil {
		return err
	}
	for _, track := range tracks {
		if !strings.EqualFold(track.Language, language.LanguageCode) {
			continue
		}
		if err := svc.DeleteCaption(ctx, track.ID); err != nil {
			return err
		}
	}
	return nil
}

func (t *YouTubeVideoType) service(ctx context.Context, account *model.ThirdPartyAccount) (youtube.ICaptionService, error) {
	if account == nil {
		return nil, errors.New("no account to push with")
	}
	if t.captions == nil {
		return nil, fmt.Errorf("youtube captions: %w", model.ErrImproperlyConfigured)
	}
	return t.captions(ctx, account)
}
