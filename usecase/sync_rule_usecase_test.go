package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"subtitle-widget/domain/model"
	"subtitle-widget/usecase"
)

func TestSyncRuleUsecase_GetReturnsEmptyRuleWhenUnset(t *testing.T) {
	repo := new(MockSyncRuleRepository)
	repo.On("Get", mock.Anything).Return(nil, model.ErrSyncRuleNotFound)

	rule, err := usecase.NewSyncRuleUsecase(repo).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.SyncRule{}, rule)
}

func TestSyncRuleUsecase_Clean(t *testing.T) {
	repo := new(MockSyncRuleRepository)
	repo.On("CountTeams", mock.Anything, []string{"ted", "khan"}).Return(1, nil)
	repo.On("CountTeams", mock.Anything, []string{"ted"}).Return(1, nil)
	repo.On("CountUsers", mock.Anything, []string{"ghost"}).Return(0, nil)
	repo.On("CountTeams", mock.Anything, []string{}).Return(0, nil)
	repo.On("CountUsers", mock.Anything, []string{}).Return(0, nil)
	uc := usecase.NewSyncRuleUsecase(repo)

	err := uc.Clean(context.Background(), &model.SyncRule{Team: "ted, khan,*"})
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Contains(t, err.Error(), "One or more teams not found")

	err = uc.Clean(context.Background(), &model.SyncRule{Team: "ted,ted", User: "ghost"})
	assert.Contains(t, err.Error(), "One or more users not found")

	assert.NoError(t, uc.Clean(context.Background(), &model.SyncRule{Team: "*", User: "*", Video: "*"}))
}

func TestSyncRuleUsecase_SaveKeepsSingleRule(t *testing.T) {
	repo := new(MockSyncRuleRepository)
	repo.On("CountTeams", mock.Anything, []string{}).Return(0, nil)
	repo.On("CountUsers", mock.Anything, []string{"alice"}).Return(1, nil)
	repo.On("Get", mock.Anything).Return(&model.SyncRule{ID: 3}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(r *model.SyncRule) bool { return r.ID == 3 && r.User == "alice" })).Return(nil)

	saved, err := usecase.NewSyncRuleUsecase(repo).Save(context.Background(), &model.SyncRule{ID: 99, User: "alice", Video: "42"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.ID)
	repo.AssertExpectations(t)
}

func TestSyncRuleUsecase_SaveRejectsInvalidRule(t *testing.T) {
	repo := new(MockSyncRuleRepository)
	repo.On("CountTeams", mock.Anything, []string{"nope"}).Return(0, nil)

	_, err := usecase.NewSyncRuleUsecase(repo).Save(context.Background(), &model.SyncRule{Team: "nope"})
	assert.True(t, errors.Is(err, model.ErrValidation))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
