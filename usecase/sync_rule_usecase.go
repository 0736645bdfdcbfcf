package usecase

import (
	"context"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"
)

type ISyncRuleUsecase interface {
	// Get returns an empty rule when none was saved yet.
	Get(ctx context.Context) (*model.SyncRule, error)
	Save(ctx context.Context, rule *model.SyncRule) (*model.SyncRule, error)
	Clean(ctx context.Context, rule *model.SyncRule) error
}

type SyncRuleUsecase struct {
	repo repository.ISyncRule
}

func NewSyncRuleUsecase(repo repository.ISyncRule) ISyncRuleUsecase {
	return &SyncRuleUsecase{repo: repo}
}

func (u *SyncRuleUsecase) Get(ctx context.Context) (*model.SyncRule, error) {
	rule, err := u.repo.Get(ctx)
	if errors.Is(err, model.ErrSyncRuleNotFound) {
		return &model.SyncRule{}, nil
	}
	return rule, err
}

// Clean checks that every listed team and user exists. Wildcards are ignored.
func (u *SyncRuleUsecase) Clean(ctx context.Context, rule *model.SyncRule) error {
	teams := rule.CleanTeams()
	n, err := u.repo.CountTeams(ctx, teams)
	if err != nil {
		return err
	}
	if n != len(teams) {
		return fmt.Errorf("One or more teams not found: %w", model.ErrValidation)
	}

	users := rule.CleanUsers()
	n, err = u.repo.CountUsers(ctx, users)
	if err != nil {
		return err
	}
	if n != len(users) {
		return fmt.Errorf("One or more users not found: %w", model.ErrValidation)
	}
	return nil
}

// Save validates the rule and stores it as the only rule.
func (u *SyncRuleUsecase) Save(ctx context.Context, rule *model.SyncRule) (*model.SyncRule, error) {
	if err := u.Clean(ctx, rule); err != nil {
		return nil, err
	}

	existing, err := u.repo.Get(ctx)
	switch {
	case err == nil:
		rule.ID = existing.ID
	case errors.Is(err, model.ErrSyncRuleNotFound):
		rule.ID = 0
	default:
		return nil, err
	}

	if err := u.repo.Save(ctx, rule); err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("rule", rule).Info("Youtube sync rule saved")
	return rule, nil
}
