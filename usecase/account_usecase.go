package usecase

import (
	"context"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/clients/youtube"
	"subtitle-widget/infrastructure/logger"
)

// IAccountUsecase links and unlinks third party accounts.
type IAccountUsecase interface {
	AuthURL(state string) string
	// Link completes the OAuth flow and stores the channel as a YouTube account.
	Link(ctx context.Context, code string) (*model.ThirdPartyAccount, error)
	List(ctx context.Context) ([]model.ThirdPartyAccount, error)
	Unlink(ctx context.Context, accountType model.AccountType, username string) error
}

type AccountUsecase struct {
	accounts repository.IThirdPartyAccount
	linker   youtube.ILinker
}

func NewAccountUsecase(accounts repository.IThirdPartyAccount, linker youtube.ILinker) IAccountUsecase {
	return &AccountUsecase{accounts: accounts, linker: linker}
}

func (u *AccountUsecase) AuthURL(state string) string {
	return u.linker.AuthCodeURL(state)
}

func (u *AccountUsecase) Link(ctx context.Context, code string) (*model.ThirdPartyAccount, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code: %w", model.ErrValidation)
	}
	token, err := u.linker.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	channelID, err := u.linker.ChannelID(ctx, token)
	if err != nil {
		return nil, err
	}

	account := &model.ThirdPartyAccount{
		Type:              model.AccountTypeYouTube,
		Username:          channelID,
		OAuthAccessToken:  token.AccessToken,
		OAuthRefreshToken: token.RefreshToken,
	}
	// Google only returns a refresh token on first consent; keep the stored one.
	if account.OAuthRefreshToken == "" {
		existing, err := u.accounts.GetByTypeAndUsername(ctx, model.AccountTypeYouTube, channelID)
		switch {
		case err == nil:
			account.OAuthRefreshToken = existing.OAuthRefreshToken
		case !errors.Is(err, model.ErrAccountNotFound):
			return nil, err
		}
	}

	if err := u.accounts.Upsert(ctx, account); err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("account", account.String()).Info("Third party account linked")
	return account, nil
}

func (u *AccountUsecase) List(ctx context.Context) ([]model.ThirdPartyAccount, error) {
	return u.accounts.List(ctx)
}

func (u *AccountUsecase) Unlink(ctx context.Context, accountType model.AccountType, username string) error {
	if !accountType.Valid() || username == "" {
		return fmt.Errorf("unknown account %s/%s: %w", accountType, username, model.ErrValidation)
	}
	if err := u.accounts.Delete(ctx, accountType, username); err != nil {
		return err
	}
	logger.GetLogger().WithField("type", string(accountType)).WithField("username", username).Info("Third party account unlinked")
	return nil
}
