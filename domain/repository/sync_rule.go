package repository

import (
	"context"

	"subtitle-widget/domain/model"
)

// ISyncRule reads and writes the singleton YouTube sync rule.
type ISyncRule interface {
	// Get returns model.ErrSyncRuleNotFound when no rule was configured.
	Get(ctx context.Context) (*model.SyncRule, error)
	Save(ctx context.Context, rule *model.SyncRule) error
	// CountTeams and CountUsers back rule validation.
	CountTeams(ctx context.Context, slugs []string) (int, error)
	CountUsers(ctx context.Context, usernames []string) (int, error)
}
