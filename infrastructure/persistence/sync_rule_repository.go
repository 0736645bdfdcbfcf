package persistence

import (
	"context"
	"database/sql"
	"errors"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/utils"

	"github.com/lib/pq"
)

type SyncRuleRepository struct{ db *sql.DB }

func NewSyncRuleRepository(db *sql.DB) repository.ISyncRule {
	return &SyncRuleRepository{db: db}
}

// Get returns the first rule; only one is expected to exist.
func (r *SyncRuleRepository) Get(ctx context.Context) (*model.SyncRule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, team_slugs, usernames, video_ids, updated_at FROM youtube_sync_rules ORDER BY id LIMIT 1`)
	rule := &model.SyncRule{}
	if err := row.Scan(&rule.ID, &rule.Team, &rule.User, &rule.Video, &rule.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSyncRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *SyncRuleRepository) Save(ctx context.Context, rule *model.SyncRule) error {
	rule.UpdatedAt = utils.GetCurrentTime()
	if rule.ID == 0 {
		return r.db.QueryRowContext(ctx,
			`INSERT INTO youtube_sync_rules (team_slugs, usernames, video_ids, updated_at) VALUES ($1,$2,$3,$4) RETURNING id`,
			rule.Team, rule.User, rule.Video, rule.UpdatedAt).Scan(&rule.ID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE youtube_sync_rules SET team_slugs=$1, usernames=$2, video_ids=$3, updated_at=$4 WHERE id=$5`,
		rule.Team, rule.User, rule.Video, rule.UpdatedAt, rule.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrSyncRuleNotFound)
}

func (r *SyncRuleRepository) CountTeams(ctx context.Context, slugs []string) (int, error) {
	return r.countIn(ctx, `SELECT COUNT(*) FROM teams WHERE slug = ANY($1)`, slugs)
}

func (r *SyncRuleRepository) CountUsers(ctx context.Context, usernames []string) (int, error) {
	return r.countIn(ctx, `SELECT COUNT(*) FROM users WHERE username = ANY($1)`, usernames)
}

func (r *SyncRuleRepository) countIn(ctx context.Context, q string, values []string) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, pq.Array(values)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
