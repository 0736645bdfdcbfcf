package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"subtitle-widget/domain/model"
	"subtitle-widget/usecase"
)

func TestAccountUsecase_LinkStoresChannel(t *testing.T) {
	accounts := new(MockAccountRepository)
	linker := new(MockLinker)
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}

	linker.On("Exchange", mock.Anything, "code-1").Return(token, nil)
	linker.On("ChannelID", mock.Anything, token).Return("UC123", nil)
	accounts.On("Upsert", mock.Anything, mock.MatchedBy(func(a *model.ThirdPartyAccount) bool {
		return a.Type == model.AccountTypeYouTube && a.Username == "UC123" && a.OAuthRefreshToken == "refresh"
	})).Return(nil)

	account, err := usecase.NewAccountUsecase(accounts, linker).Link(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "Youtube - UC123", account.String())
	accounts.AssertNotCalled(t, "GetByTypeAndUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountUsecase_RelinkKeepsStoredRefreshToken(t *testing.T) {
	accounts := new(MockAccountRepository)
	linker := new(MockLinker)
	token := &oauth2.Token{AccessToken: "access-2"}

	linker.On("Exchange", mock.Anything, "code-2").Return(token, nil)
	linker.On("ChannelID", mock.Anything, token).Return("UC123", nil)
	accounts.On("GetByTypeAndUsername", mock.Anything, model.AccountTypeYouTube, "UC123").
		Return(&model.ThirdPartyAccount{OAuthRefreshToken: "stored"}, nil)
	accounts.On("Upsert", mock.Anything, mock.MatchedBy(func(a *model.ThirdPartyAccount) bool {
		return a.OAuthAccessToken == "access-2" && a.OAuthRefreshToken == "stored"
	})).Return(nil)

	_, err := usecase.NewAccountUsecase(accounts, linker).Link(context.Background(), "code-2")
	require.NoError(t, err)
	accounts.AssertExpectations(t)
}

func TestAccountUsecase_LinkErrors(t *testing.T) {
	accounts := new(MockAccountRepository)
	linker := new(MockLinker)
	linker.On("Exchange", mock.Anything, "bad").Return(nil, errors.New("invalid_grant"))
	uc := usecase.NewAccountUsecase(accounts, linker)

	_, err := uc.Link(context.Background(), "")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = uc.Link(context.Background(), "bad")
	assert.EqualError(t, err, "invalid_grant")
	accounts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAccountUsecase_Unlink(t *testing.T) {
	accounts := new(MockAccountRepository)
	accounts.On("Delete", mock.Anything, model.AccountTypeYouTube, "UC123").Return(nil)
	accounts.On("Delete", mock.Anything, model.AccountTypeYouTube, "gone").Return(model.ErrAccountNotFound)
	uc := usecase.NewAccountUsecase(accounts, new(MockLinker))

	require.NoError(t, uc.Unlink(context.Background(), model.AccountTypeYouTube, "UC123"))
	assert.True(t, errors.Is(uc.Unlink(context.Background(), model.AccountTypeYouTube, "gone"), model.ErrAccountNotFound))
	assert.True(t, errors.Is(uc.Unlink(context.Background(), model.AccountType("Z"), "x"), model.ErrValidation))
}

func TestAccountUsecase_AuthURL(t *testing.T) {
	linker := new(MockLinker)
	linker.On("AuthCodeURL", "state-1").Return("https://accounts.google.com/o/oauth2/auth?state=state-1")
	assert.Contains(t, usecase.NewAccountUsecase(nil, linker).AuthURL("state-1"), "state=state-1")
}
