package usecase_test

import (
	"context"
	"sync"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/usecase"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByTypeAndUsername(ctx context.Context, accountType model.AccountType, username string) (*model.ThirdPartyAccount, error) {
	args := m.Called(ctx, accountType, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThirdPartyAccount), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]model.ThirdPartyAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ThirdPartyAccount), args.Error(1)
}

func (m *MockAccountRepository) Upsert(ctx context.Context, account *model.ThirdPartyAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	return m.Called(ctx, id, accessToken, refreshToken).Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, accountType model.AccountType, username string) error {
	return m.Called(ctx, accountType, username).Error(0)
}

type MockSyncRuleRepository struct {
	mock.Mock
}

func (m *MockSyncRuleRepository) Get(ctx context.Context) (*model.SyncRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncRule), args.Error(1)
}

func (m *MockSyncRuleRepository) Save(ctx context.Context, rule *model.SyncRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockSyncRuleRepository) CountTeams(ctx context.Context, slugs []string) (int, error) {
	args := m.Called(ctx, slugs)
	return args.Int(0), args.Error(1)
}

func (m *MockSyncRuleRepository) CountUsers(ctx context.Context, usernames []string) (int, error) {
	args := m.Called(ctx, usernames)
	return args.Int(0), args.Error(1)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) GetByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) GetByURL(ctx context.Context, url string) (*model.Video, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) ListLanguages(ctx context.Context, videoPK int64) ([]model.SubtitleLanguage, error) {
	args := m.Called(ctx, videoPK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubtitleLanguage), args.Error(1)
}

func (m *MockVideoRepository) GetLanguage(ctx context.Context, videoPK int64, languageCode string) (*model.SubtitleLanguage, error) {
	args := m.Called(ctx, videoPK, languageCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubtitleLanguage), args.Error(1)
}

func (m *MockVideoRepository) SaveLanguage(ctx context.Context, language *model.SubtitleLanguage) error {
	return m.Called(ctx, language).Error(0)
}

func (m *MockVideoRepository) DeleteLanguage(ctx context.Context, languagePK int64) error {
	return m.Called(ctx, languagePK).Error(0)
}

func (m *MockVideoRepository) LatestVersion(ctx context.Context, languagePK int64) (*model.SubtitleVersion, error) {
	args := m.Called(ctx, languagePK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubtitleVersion), args.Error(1)
}

func (m *MockVideoRepository) GetVersion(ctx context.Context, languagePK int64, versionNo int) (*model.SubtitleVersion, error) {
	args := m.Called(ctx, languagePK, versionNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubtitleVersion), args.Error(1)
}

func (m *MockVideoRepository) CreateVersion(ctx context.Context, version *model.SubtitleVersion) error {
	return m.Called(ctx, version).Error(0)
}

type MockDialogCallRepository struct {
	mock.Mock
}

func (m *MockDialogCallRepository) Save(ctx context.Context, call *model.WidgetDialogCall) error {
	return m.Called(ctx, call).Error(0)
}

// MockVideoType is a provider that can receive subtitles.
type MockVideoType struct {
	mock.Mock
	name string
}

func (m *MockVideoType) Name() string                   { return m.name }
func (m *MockVideoType) AccountType() model.AccountType { return model.AccountTypeYouTube }

func (m *MockVideoType) UpdateSubtitles(ctx context.Context, version *model.SubtitleVersion, account *model.ThirdPartyAccount) error {
	return m.Called(ctx, version, account).Error(0)
}

func (m *MockVideoType) DeleteSubtitles(ctx context.Context, language *model.SubtitleLanguage, account *model.ThirdPartyAccount) error {
	return m.Called(ctx, language, account).Error(0)
}

// playbackOnlyVideoType cannot receive subtitles.
type playbackOnlyVideoType struct{}

func (playbackOnlyVideoType) Name() string                   { return "HTML5" }
func (playbackOnlyVideoType) AccountType() model.AccountType { return model.AccountTypeHTML5 }

type fakeRegistry struct {
	types map[string]repository.IVideoType
}

func (r *fakeRegistry) VideoTypeForURL(url string) (repository.IVideoType, error) {
	if vt, ok := r.types[url]; ok {
		return vt, nil
	}
	return nil, model.ErrUnsupportedURL
}

type pushRecord struct {
	provider string
	success  bool
}

type recordingMetrics struct {
	mu     sync.Mutex
	pushes []pushRecord
	calls  []string
}

func (r *recordingMetrics) RecordPush(provider string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, pushRecord{provider, success})
}

func (r *recordingMetrics) RecordRPCCall(transport string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, transport)
}

type MockLinker struct {
	mock.Mock
}

func (m *MockLinker) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockLinker) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockLinker) ChannelID(ctx context.Context, token *oauth2.Token) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockMirrorUsecase struct {
	mock.Mock
}

func (m *MockMirrorUsecase) Mirror(ctx context.Context, video *model.Video, language *model.SubtitleLanguage, action model.MirrorAction, version *model.SubtitleVersion) error {
	return m.Called(ctx, video, language, action, version).Error(0)
}

func (m *MockMirrorUsecase) AlwaysPushAccount(ctx context.Context) (*model.ThirdPartyAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThirdPartyAccount), args.Error(1)
}

func (m *MockMirrorUsecase) SyncToYouTube(ctx context.Context, videoID, languageCode string) (*usecase.SyncResult, error) {
	args := m.Called(ctx, videoID, languageCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SyncResult), args.Error(1)
}
