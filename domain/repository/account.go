package repository

import (
	"context"

	"subtitle-widget/domain/model"
)

// IThirdPartyAccount persists linked third party accounts.
type IThirdPartyAccount interface {
	// GetByTypeAndUsername returns model.ErrAccountNotFound when no account is linked.
	GetByTypeAndUsername(ctx context.Context, accountType model.AccountType, username string) (*model.ThirdPartyAccount, error)
	List(ctx context.Context) ([]model.ThirdPartyAccount, error)
	// Upsert inserts the account or refreshes the tokens of the existing (type, username) row.
	Upsert(ctx context.Context, account *model.ThirdPartyAccount) error
	UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error
	Delete(ctx context.Context, accountType model.AccountType, username string) error
}
