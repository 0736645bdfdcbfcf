package usecase

import (
	"context"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/infrastructure/metrics"
)

// IMirrorUsecase propagates subtitle changes to the third party copies of a video.
type IMirrorUsecase interface {
	// Mirror is safe to call on every change: provider failures are counted and
	// logged, never returned. Only an unsupported action is an error.
	Mirror(ctx context.Context, video *model.Video, language *model.SubtitleLanguage, action model.MirrorAction, version *model.SubtitleVersion) error
	AlwaysPushAccount(ctx context.Context) (*model.ThirdPartyAccount, error)
	// SyncToYouTube pushes the latest version of a language to every URL of the
	// video with the always-push account, skipping the sync rule.
	SyncToYouTube(ctx context.Context, videoID, languageCode string) (*SyncResult, error)
}

// SyncResult summarizes a forced sync.
type SyncResult struct {
	Version   int  `json:"version"`
	Attempted int  `json:"attempted"`
	Succeeded int  `json:"succeeded"`
	Skipped   bool `json:"skipped"`
}

type MirrorUsecase struct {
	accounts           repository.IThirdPartyAccount
	syncRules          repository.ISyncRule
	videos             repository.IVideo
	videoTypes         repository.IVideoTypeRegistry
	metrics            metrics.Recorder
	alwaysPushUsername string
}

func NewMirrorUsecase(
	accounts repository.IThirdPartyAccount,
	syncRules repository.ISyncRule,
	videos repository.IVideo,
	videoTypes repository.IVideoTypeRegistry,
	recorder metrics.Recorder,
	alwaysPushUsername string,
) IMirrorUsecase {
	if recorder == nil {
		recorder = metrics.NewNoopMetrics()
	}
	return &MirrorUsecase{
		accounts:           accounts,
		syncRules:          syncRules,
		videos:             videos,
		videoTypes:         videoTypes,
		metrics:            recorder,
		alwaysPushUsername: alwaysPushUsername,
	}
}

func (m *MirrorUsecase) AlwaysPushAccount(ctx context.Context) (*model.ThirdPartyAccount, error) {
	if m.alwaysPushUsername == "" {
		return nil, fmt.Errorf("youtube always push username not set: %w", model.ErrImproperlyConfigured)
	}
	account, err := m.accounts.GetByTypeAndUsername(ctx, model.AccountTypeYouTube, m.alwaysPushUsername)
	if errors.Is(err, model.ErrAccountNotFound) {
		return nil, fmt.Errorf("can't find youtube account %q: %w", m.alwaysPushUsername, model.ErrImproperlyConfigured)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (m *MirrorUsecase) Mirror(ctx context.Context, video *model.Video, language *model.SubtitleLanguage, action model.MirrorAction, version *model.SubtitleVersion) error {
	if !action.Supported() {
		return fmt.Errorf("%s: %w", action, model.ErrUnsupportedAction)
	}
	if version != nil && !version.Mirrorable() {
		return nil
	}

	log := logger.GetLogger().WithField("videoId", video.VideoID).WithField("action", string(action))

	alwaysPush, shouldSync := m.syncDecision(ctx, video)

	for _, vurl := range video.URLs {
		vt, err := m.videoTypes.VideoTypeForURL(vurl.URL)
		if err != nil {
			log.WithField("url", vurl.URL).WithField("error", err).Warn("No video type for url, skipping")
			continue
		}

		alreadyUpdated := false
		if shouldSync {
			alreadyUpdated = m.push(ctx, vt, func(mirror repository.ISubtitleMirror) error {
				return mirror.UpdateSubtitles(ctx, version, alwaysPush)
			})
		}

		if vurl.OwnerUsername == "" {
			continue
		}
		account, err := m.accounts.GetByTypeAndUsername(ctx, vurl.Type, vurl.OwnerUsername)
		if err != nil {
			if !errors.Is(err, model.ErrAccountNotFound) {
				log.WithField("owner", vurl.OwnerUsername).WithField("error", err).Error("Failed to load owner account")
			}
			continue
		}

		mirror, ok := vt.(repository.ISubtitleMirror)
		if !ok {
			continue
		}
		switch {
		case action == model.UpdateVersionAction && !alreadyUpdated:
			m.push(ctx, vt, func(repository.ISubtitleMirror) error {
				return mirror.UpdateSubtitles(ctx, version, account)
			})
		case action == model.DeleteLanguageAction:
			m.push(ctx, vt, func(repository.ISubtitleMirror) error {
				return mirror.DeleteSubtitles(ctx, language, account)
			})
		}
	}
	return nil
}

// syncDecision resolves the always-push account and evaluates the sync rule.
// Without an always-push account nothing is synced by rule.
func (m *MirrorUsecase) syncDecision(ctx context.Context, video *model.Video) (*model.ThirdPartyAccount, bool) {
	alwaysPush, err := m.AlwaysPushAccount(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Always push account unavailable, skipping sync rule")
		return nil, false
	}
	rule, err := m.syncRules.Get(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrSyncRuleNotFound) {
			logger.GetLogger().WithField("error", err).Error("Failed to load youtube sync rule")
		}
		return alwaysPush, false
	}
	return alwaysPush, rule.ShouldSync(video)
}

// push runs one best-effort provider call and records its outcome.
func (m *MirrorUsecase) push(ctx context.Context, vt repository.IVideoType, call func(repository.ISubtitleMirror) error) bool {
	mirror, ok := vt.(repository.ISubtitleMirror)
	var err error
	if !ok {
		err = fmt.Errorf("%s video type can't receive subtitles", vt.Name())
	} else {
		err = call(mirror)
	}
	m.metrics.RecordPush(vt.Name(), err == nil)
	if err != nil {
		logger.GetLogger().WithField("provider", vt.Name()).WithField("error", err).Warn("Subtitle push failed")
		return false
	}
	return true
}

func (m *MirrorUsecase) SyncToYouTube(ctx context.Context, videoID, languageCode string) (*SyncResult, error) {
	video, err := m.videos.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	language, err := m.videos.GetLanguage(ctx, video.ID, languageCode)
	if err != nil {
		return nil, err
	}
	version, err := m.videos.LatestVersion(ctx, language.ID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("%s has no versions: %w", languageCode, model.ErrVersionNotFound)
	}

	result := &SyncResult{Version: version.VersionNo}
	if !version.Mirrorable() {
		result.Skipped = true
		return result, nil
	}

	alwaysPush, err := m.AlwaysPushAccount(ctx)
	if err != nil {
		return nil, err
	}
	for _, vurl := range video.URLs {
		vt, err := m.videoTypes.VideoTypeForURL(vurl.URL)
		if err != nil {
			continue
		}
		result.Attempted++
		if m.push(ctx, vt, func(mirror repository.ISubtitleMirror) error {
			return mirror.UpdateSubtitles(ctx, version, alwaysPush)
		}) {
			result.Succeeded++
		}
	}
	logger.GetLogger().WithField("videoId", videoID).WithField("language", languageCode).WithField("result", result).Info("Forced youtube sync finished")
	return result, nil
}
