package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/utils"
)

// ThirdPartyAccountRepositoryMSSQL is the SQL Server implementation of IThirdPartyAccount.
type ThirdPartyAccountRepositoryMSSQL struct{ db *sql.DB }

func NewThirdPartyAccountRepositoryMSSQL(db *sql.DB) repository.IThirdPartyAccount {
	return &ThirdPartyAccountRepositoryMSSQL{db: db}
}

func (r *ThirdPartyAccountRepositoryMSSQL) GetByTypeAndUsername(ctx context.Context, accountType model.AccountType, username string) (*model.ThirdPartyAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM dbo.[third_party_accounts] WHERE type=@p1 AND username=@p2`, string(accountType), username)
	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s - %s: %w", accountType.DisplayName(), username, model.ErrAccountNotFound)
	}
	return acc, err
}

func (r *ThirdPartyAccountRepositoryMSSQL) List(ctx context.Context) ([]model.ThirdPartyAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM dbo.[third_party_accounts] ORDER BY type, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *ThirdPartyAccountRepositoryMSSQL) Upsert(ctx context.Context, a *model.ThirdPartyAccount) error {
	now := utils.GetCurrentTime()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	// MERGE upsert by (type, username)
	q := `MERGE dbo.[third_party_accounts] AS target
USING (VALUES (@p1, @p2)) AS src(type, username)
ON target.type = src.type AND target.username = src.username
WHEN MATCHED THEN UPDATE SET
    oauth_access_token=@p3,
    oauth_refresh_token=@p4,
    updated_at=@p6
WHEN NOT MATCHED THEN
    INSERT (type, username, oauth_access_token, oauth_refresh_token, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6)
OUTPUT INSERTED.id;`
	return r.db.QueryRowContext(ctx, q, string(a.Type), a.Username, a.OAuthAccessToken, a.OAuthRefreshToken, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
}

func (r *ThirdPartyAccountRepositoryMSSQL) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE dbo.[third_party_accounts] SET oauth_access_token=@p1, oauth_refresh_token=@p2, updated_at=@p3 WHERE id=@p4`,
		accessToken, refreshToken, utils.GetCurrentTime(), id)
	return err
}

func (r *ThirdPartyAccountRepositoryMSSQL) Delete(ctx context.Context, accountType model.AccountType, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[third_party_accounts] WHERE type=@p1 AND username=@p2`, string(accountType), username)
	if err != nil {
		return err
	}
	return requireAffected(res, fmt.Errorf("%s - %s: %w", accountType.DisplayName(), username, model.ErrAccountNotFound))
}
