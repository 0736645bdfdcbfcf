package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/usecase"
)

type mirrorFixture struct {
	accounts  *MockAccountRepository
	syncRules *MockSyncRuleRepository
	videos    *MockVideoRepository
	registry  *fakeRegistry
	metrics   *recordingMetrics
}

func newMirrorFixture() *mirrorFixture {
	return &mirrorFixture{
		accounts:  new(MockAccountRepository),
		syncRules: new(MockSyncRuleRepository),
		videos:    new(MockVideoRepository),
		registry:  &fakeRegistry{types: map[string]repository.IVideoType{}},
		metrics:   &recordingMetrics{},
	}
}

func (f *mirrorFixture) usecase(alwaysPush string) usecase.IMirrorUsecase {
	return usecase.NewMirrorUsecase(f.accounts, f.syncRules, f.videos, f.registry, f.metrics, alwaysPush)
}

var (
	alwaysPushAccount = &model.ThirdPartyAccount{ID: 1, Type: model.AccountTypeYouTube, Username: "always"}
	ownerAccount      = &model.ThirdPartyAccount{ID: 2, Type: model.AccountTypeYouTube, Username: "owner-channel"}
)

func syncedVersion() *model.SubtitleVersion {
	return &model.SubtitleVersion{
		ID:           10,
		VersionNo:    3,
		LanguageCode: "en",
		IsPublic:     true,
		Subtitles:    []model.Subtitle{{Text: "hi", StartTime: 0, EndTime: 1000, Order: 1}},
	}
}

func tedVideo() *model.Video {
	return &model.Video{
		ID:       7,
		VideoID:  "abc",
		TeamSlug: "ted",
		URLs: []model.VideoURL{
			{URL: "http://youtu.be/one", Type: model.AccountTypeYouTube},
			{URL: "http://youtu.be/two", Type: model.AccountTypeYouTube, OwnerUsername: "owner-channel"},
		},
	}
}

func TestMirror_UnsupportedAction(t *testing.T) {
	f := newMirrorFixture()
	err := f.usecase("always").Mirror(context.Background(), tedVideo(), &model.SubtitleLanguage{}, model.MirrorAction("rename"), nil)
	assert.True(t, errors.Is(err, model.ErrUnsupportedAction))
	assert.Empty(t, f.metrics.pushes)
}

func TestMirror_SkipsUnpublishedOrUnsyncedVersions(t *testing.T) {
	f := newMirrorFixture()
	uc := f.usecase("always")

	private := syncedVersion()
	private.IsPublic = false
	require.NoError(t, uc.Mirror(context.Background(), tedVideo(), &model.SubtitleLanguage{}, model.UpdateVersionAction, private))

	unsynced := syncedVersion()
	unsynced.Subtitles = append(unsynced.Subtitles, model.Subtitle{Text: "later", StartTime: model.UnsyncedTime, EndTime: model.UnsyncedTime})
	require.NoError(t, uc.Mirror(context.Background(), tedVideo(), &model.SubtitleLanguage{}, model.UpdateVersionAction, unsynced))

	f.accounts.AssertNotCalled(t, "GetByTypeAndUsername", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.metrics.pushes)
}

func TestMirror_SyncRulePushesEveryURLOnce(t *testing.T) {
	f := newMirrorFixture()
	version := syncedVersion()
	one, two := &MockVideoType{name: "Youtube"}, &MockVideoType{name: "Youtube"}
	f.registry.types["http://youtu.be/one"] = one
	f.registry.types["http://youtu.be/two"] = two

	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "always").Return(alwaysPushAccount, nil)
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "owner-channel").Return(ownerAccount, nil)
	f.syncRules.On("Get", mock.Anything).Return(&model.SyncRule{Team: "ted"}, nil)
	one.On("UpdateSubtitles", mock.Anything, version, alwaysPushAccount).Return(nil).Once()
	two.On("UpdateSubtitles", mock.Anything, version, alwaysPushAccount).Return(nil).Once()

	require.NoError(t, f.usecase("always").Mirror(context.Background(), tedVideo(), &model.SubtitleLanguage{LanguageCode: "en"}, model.UpdateVersionAction, version))

	one.AssertExpectations(t)
	two.AssertExpectations(t)
	two.AssertNumberOfCalls(t, "UpdateSubtitles", 1)
	assert.Equal(t, []pushRecord{{"Youtube", true}, {"Youtube", true}}, f.metrics.pushes)
}

func TestMirror_OwnerUpdateRunsWhenAlwaysPushFails(t *testing.T) {
	f := newMirrorFixture()
	version := syncedVersion()
	two := &MockVideoType{name: "Youtube"}
	f.registry.types["http://youtu.be/two"] = two
	video := tedVideo()
	video.URLs = video.URLs[1:]

	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "always").Return(alwaysPushAccount, nil)
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "owner-channel").Return(ownerAccount, nil)
	f.syncRules.On("Get", mock.Anything).Return(&model.SyncRule{Video: "7"}, nil)
	two.On("UpdateSubtitles", mock.Anything, version, alwaysPushAccount).Return(errors.New("quota exceeded")).Once()
	two.On("UpdateSubtitles", mock.Anything, version, ownerAccount).Return(nil).Once()

	require.NoError(t, f.usecase("always").Mirror(context.Background(), video, &model.SubtitleLanguage{}, model.UpdateVersionAction, version))

	two.AssertExpectations(t)
	assert.Equal(t, []pushRecord{{"Youtube", false}, {"Youtube", true}}, f.metrics.pushes)
}

func TestMirror_DeleteWithoutAlwaysPushAccountStillReachesOwner(t *testing.T) {
	f := newMirrorFixture()
	language := &model.SubtitleLanguage{ID: 4, LanguageCode: "fr"}
	one, two := &MockVideoType{name: "Youtube"}, &MockVideoType{name: "Youtube"}
	f.registry.types["http://youtu.be/one"] = one
	f.registry.types["http://youtu.be/two"] = two

	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "owner-channel").Return(ownerAccount, nil)
	two.On("DeleteSubtitles", mock.Anything, language, ownerAccount).Return(nil).Once()

	require.NoError(t, f.usecase("").Mirror(context.Background(), tedVideo(), language, model.DeleteLanguageAction, nil))

	two.AssertExpectations(t)
	one.AssertNotCalled(t, "DeleteSubtitles", mock.Anything, mock.Anything, mock.Anything)
	f.syncRules.AssertNotCalled(t, "Get", mock.Anything)
	assert.Equal(t, []pushRecord{{"Youtube", true}}, f.metrics.pushes)
}

func TestMirror_MissingSyncRuleOnlyUpdatesOwner(t *testing.T) {
	f := newMirrorFixture()
	version := syncedVersion()
	one, two := &MockVideoType{name: "Youtube"}, &MockVideoType{name: "Youtube"}
	f.registry.types["http://youtu.be/one"] = one
	f.registry.types["http://youtu.be/two"] = two

	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "always").Return(alwaysPushAccount, nil)
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "owner-channel").Return(ownerAccount, nil)
	f.syncRules.On("Get", mock.Anything).Return(nil, model.ErrSyncRuleNotFound)
	two.On("UpdateSubtitles", mock.Anything, version, ownerAccount).Return(nil).Once()

	require.NoError(t, f.usecase("always").Mirror(context.Background(), tedVideo(), &model.SubtitleLanguage{}, model.UpdateVersionAction, version))

	two.AssertExpectations(t)
	one.AssertNotCalled(t, "UpdateSubtitles", mock.Anything, mock.Anything, mock.Anything)
}

func TestMirror_UnlinkedOwnerAndUnsupportedURLsAreSkipped(t *testing.T) {
	f := newMirrorFixture()
	version := syncedVersion()
	video := &model.Video{VideoID: "abc", URLs: []model.VideoURL{
		{URL: "http://vimeo.com/1", Type: model.AccountTypeYouTube},
		{URL: "http://cdn.example.com/a.mp4", Type: model.AccountTypeHTML5},
		{URL: "http://youtu.be/two", Type: model.AccountTypeYouTube, OwnerUsername: "stranger"},
	}}
	two := &MockVideoType{name: "Youtube"}
	f.registry.types["http://cdn.example.com/a.mp4"] = playbackOnlyVideoType{}
	f.registry.types["http://youtu.be/two"] = two

	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "always").Return(alwaysPushAccount, nil)
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "stranger").Return(nil, model.ErrAccountNotFound)
	f.syncRules.On("Get", mock.Anything).Return(&model.SyncRule{User: "*"}, nil)
	two.On("UpdateSubtitles", mock.Anything, version, alwaysPushAccount).Return(nil).Once()

	require.NoError(t, f.usecase("always").Mirror(context.Background(), video, &model.SubtitleLanguage{}, model.UpdateVersionAction, version))

	two.AssertExpectations(t)
	assert.Equal(t, []pushRecord{{"HTML5", false}, {"Youtube", true}}, f.metrics.pushes)
}

func TestAlwaysPushAccount(t *testing.T) {
	f := newMirrorFixture()
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "missing").Return(nil, model.ErrAccountNotFound)
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "always").Return(alwaysPushAccount, nil)

	_, err := f.usecase("").AlwaysPushAccount(context.Background())
	assert.True(t, errors.Is(err, model.ErrImproperlyConfigured))

	_, err = f.usecase("missing").AlwaysPushAccount(context.Background())
	assert.True(t, errors.Is(err, model.ErrImproperlyConfigured))

	acc, err := f.usecase("always").AlwaysPushAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alwaysPushAccount, acc)
}

func TestSyncToYouTube(t *testing.T) {
	f := newMirrorFixture()
	version := syncedVersion()
	video := tedVideo()
	video.URLs = append(video.URLs, model.VideoURL{URL: "http://vimeo.com/1"})
	one, two := &MockVideoType{name: "Youtube"}, &MockVideoType{name: "Youtube"}
	f.registry.types["http://youtu.be/one"] = one
	f.registry.types["http://youtu.be/two"] = two

	f.videos.On("GetByVideoID", mock.Anything, "abc").Return(video, nil)
	f.videos.On("GetLanguage", mock.Anything, int64(7), "en").Return(&model.SubtitleLanguage{ID: 4, LanguageCode: "en"}, nil)
	f.videos.On("LatestVersion", mock.Anything, int64(4)).Return(version, nil)
	f.accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "always").Return(alwaysPushAccount, nil)
	one.On("UpdateSubtitles", mock.Anything, version, alwaysPushAccount).Return(nil)
	two.On("UpdateSubtitles", mock.Anything, version, alwaysPushAccount).Return(errors.New("forbidden"))

	result, err := f.usecase("always").SyncToYouTube(context.Background(), "abc", "en")
	require.NoError(t, err)
	assert.Equal(t, &usecase.SyncResult{Version: 3, Attempted: 2, Succeeded: 1}, result)
	f.syncRules.AssertNotCalled(t, "Get", mock.Anything)
}

func TestSyncToYouTube_SkipsPrivateVersionAndRejectsEmptyLanguage(t *testing.T) {
	f := newMirrorFixture()
	private := syncedVersion()
	private.IsPublic = false

	f.videos.On("GetByVideoID", mock.Anything, "abc").Return(tedVideo(), nil)
	f.videos.On("GetLanguage", mock.Anything, int64(7), "en").Return(&model.SubtitleLanguage{ID: 4}, nil)
	f.videos.On("GetLanguage", mock.Anything, int64(7), "de").Return(&model.SubtitleLanguage{ID: 5}, nil)
	f.videos.On("LatestVersion", mock.Anything, int64(4)).Return(private, nil)
	f.videos.On("LatestVersion", mock.Anything, int64(5)).Return(nil, nil)

	result, err := f.usecase("always").SyncToYouTube(context.Background(), "abc", "en")
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	_, err = f.usecase("always").SyncToYouTube(context.Background(), "abc", "de")
	assert.True(t, errors.Is(err, model.ErrVersionNotFound))
}
