package repository

import (
	"context"

	"subtitle-widget/domain/model"
)

type IDialogCall interface {
	Save(ctx context.Context, call *model.WidgetDialogCall) error
}
