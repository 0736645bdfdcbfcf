package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/infrastructure/utils"
)

type ThirdPartyAccountRepository struct{ db *sql.DB }

func NewThirdPartyAccountRepository(db *sql.DB) repository.IThirdPartyAccount {
	return &ThirdPartyAccountRepository{db: db}
}

const accountColumns = `id, type, username, oauth_access_token, oauth_refresh_token, created_at, updated_at`

func (r *ThirdPartyAccountRepository) GetByTypeAndUsername(ctx context.Context, accountType model.AccountType, username string) (*model.ThirdPartyAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM third_party_accounts WHERE type=$1 AND username=$2`, string(accountType), username)
	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s - %s: %w", accountType.DisplayName(), username, model.ErrAccountNotFound)
	}
	return acc, err
}

func (r *ThirdPartyAccountRepository) List(ctx context.Context) ([]model.ThirdPartyAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM third_party_accounts ORDER BY type, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *ThirdPartyAccountRepository) Upsert(ctx context.Context, a *model.ThirdPartyAccount) error {
	now := utils.GetCurrentTime()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	q := `INSERT INTO third_party_accounts (type, username, oauth_access_token, oauth_refresh_token, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (type, username) DO UPDATE SET
			oauth_access_token=EXCLUDED.oauth_access_token,
			oauth_refresh_token=EXCLUDED.oauth_refresh_token,
			updated_at=EXCLUDED.updated_at
		  RETURNING id`
	err := r.db.QueryRowContext(ctx, q, string(a.Type), a.Username, a.OAuthAccessToken, a.OAuthRefreshToken, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("username", a.Username).Error("upsert third party account failed")
	}
	return err
}

func (r *ThirdPartyAccountRepository) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE third_party_accounts SET oauth_access_token=$1, oauth_refresh_token=$2, updated_at=$3 WHERE id=$4`,
		accessToken, refreshToken, utils.GetCurrentTime(), id)
	return err
}

func (r *ThirdPartyAccountRepository) Delete(ctx context.Context, accountType model.AccountType, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM third_party_accounts WHERE type=$1 AND username=$2`, string(accountType), username)
	if err != nil {
		return err
	}
	return requireAffected(res, fmt.Errorf("%s - %s: %w", accountType.DisplayName(), username, model.ErrAccountNotFound))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.ThirdPartyAccount, error) {
	acc := &model.ThirdPartyAccount{}
	var accountType string
	if err := row.Scan(&acc.ID, &accountType, &acc.Username, &acc.OAuthAccessToken, &acc.OAuthRefreshToken, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	acc.Type = model.AccountType(accountType)
	return acc, nil
}

func scanAccounts(rows *sql.Rows) ([]model.ThirdPartyAccount, error) {
	accounts := []model.ThirdPartyAccount{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// requireAffected returns notFound when the statement touched no rows.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
