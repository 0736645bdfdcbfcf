package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/utils"
)

type SyncRuleRepositoryMSSQL struct{ db *sql.DB }

func NewSyncRuleRepositoryMSSQL(db *sql.DB) repository.ISyncRule {
	return &SyncRuleRepositoryMSSQL{db: db}
}

func (r *SyncRuleRepositoryMSSQL) Get(ctx context.Context) (*model.SyncRule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT TOP 1 id, team_slugs, usernames, video_ids, updated_at FROM dbo.[youtube_sync_rules] ORDER BY id`)
	rule := &model.SyncRule{}
	if err := row.Scan(&rule.ID, &rule.Team, &rule.User, &rule.Video, &rule.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSyncRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *SyncRuleRepositoryMSSQL) Save(ctx context.Context, rule *model.SyncRule) error {
	rule.UpdatedAt = utils.GetCurrentTime()
	if rule.ID == 0 {
		return r.db.QueryRowContext(ctx,
			`INSERT INTO dbo.[youtube_sync_rules] (team_slugs, usernames, video_ids, updated_at) OUTPUT INSERTED.id VALUES (@p1,@p2,@p3,@p4)`,
			rule.Team, rule.User, rule.Video, rule.UpdatedAt).Scan(&rule.ID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[youtube_sync_rules] SET team_slugs=@p1, usernames=@p2, video_ids=@p3, updated_at=@p4 WHERE id=@p5`,
		rule.Team, rule.User, rule.Video, rule.UpdatedAt, rule.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrSyncRuleNotFound)
}

func (r *SyncRuleRepositoryMSSQL) CountTeams(ctx context.Context, slugs []string) (int, error) {
	return r.countIn(ctx, "dbo.[teams]", "slug", slugs)
}

func (r *SyncRuleRepositoryMSSQL) CountUsers(ctx context.Context, usernames []string) (int, error) {
	return r.countIn(ctx, "dbo.[users]", "username", usernames)
}

func (r *SyncRuleRepositoryMSSQL) countIn(ctx context.Context, table, column string, values []string) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
		args[i] = v
	}
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s IN (%s)`, table, column, strings.Join(placeholders, ","))
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
