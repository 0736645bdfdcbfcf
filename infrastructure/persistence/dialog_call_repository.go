package persistence

import (
	"context"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"

	"gorm.io/gorm"
)

type DialogCallRepository struct{ db *gorm.DB }

func NewDialogCallRepository(db *gorm.DB) repository.IDialogCall {
	return &DialogCallRepository{db: db}
}

func (r *DialogCallRepository) Save(ctx context.Context, call *model.WidgetDialogCall) error {
	return r.db.WithContext(ctx).Create(call).Error
}
