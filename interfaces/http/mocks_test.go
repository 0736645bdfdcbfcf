package http

import (
	"context"
	"sync"

	"subtitle-widget/domain/model"
	"subtitle-widget/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(ctx context.Context, req usecase.DispatchRequest) (*usecase.DispatchResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*usecase.DispatchResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAccountUsecase struct{ mock.Mock }

func (m *MockAccountUsecase) AuthURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockAccountUsecase) Link(ctx context.Context, code string) (*model.ThirdPartyAccount, error) {
	args := m.Called(ctx, code)
	if acc := args.Get(0); acc != nil {
		return acc.(*model.ThirdPartyAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountUsecase) List(ctx context.Context) ([]model.ThirdPartyAccount, error) {
	args := m.Called(ctx)
	if accs := args.Get(0); accs != nil {
		return accs.([]model.ThirdPartyAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountUsecase) Unlink(ctx context.Context, accountType model.AccountType, username string) error {
	return m.Called(ctx, accountType, username).Error(0)
}

type MockSyncRuleUsecase struct{ mock.Mock }

func (m *MockSyncRuleUsecase) Get(ctx context.Context) (*model.SyncRule, error) {
	args := m.Called(ctx)
	if rule := args.Get(0); rule != nil {
		return rule.(*model.SyncRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSyncRuleUsecase) Save(ctx context.Context, rule *model.SyncRule) (*model.SyncRule, error) {
	args := m.Called(ctx, rule)
	if saved := args.Get(0); saved != nil {
		return saved.(*model.SyncRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSyncRuleUsecase) Clean(ctx context.Context, rule *model.SyncRule) error {
	return m.Called(ctx, rule).Error(0)
}

type MockMirrorUsecase struct{ mock.Mock }

func (m *MockMirrorUsecase) Mirror(ctx context.Context, video *model.Video, language *model.SubtitleLanguage, action model.MirrorAction, version *model.SubtitleVersion) error {
	return m.Called(ctx, video, language, action, version).Error(0)
}

func (m *MockMirrorUsecase) AlwaysPushAccount(ctx context.Context) (*model.ThirdPartyAccount, error) {
	args := m.Called(ctx)
	if acc := args.Get(0); acc != nil {
		return acc.(*model.ThirdPartyAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMirrorUsecase) SyncToYouTube(ctx context.Context, videoID, languageCode string) (*usecase.SyncResult, error) {
	args := m.Called(ctx, videoID, languageCode)
	if res := args.Get(0); res != nil {
		return res.(*usecase.SyncResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type countingMetrics struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{calls: map[string]int{}}
}

func (c *countingMetrics) RecordPush(string, bool) {}

func (c *countingMetrics) RecordRPCCall(transport string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[transport]++
}
