package model

import "time"

// WidgetDialogCall is an audit record of a high value widget RPC call.
type WidgetDialogCall struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BrowserID   string    `json:"browser_id" gorm:"size:128;index"`
	Method      string    `json:"method" gorm:"size:50"`
	RequestArgs string    `json:"request_args" gorm:"type:text"`
	Date        time.Time `json:"date" gorm:"autoCreateTime;index"`
}

func (WidgetDialogCall) TableName() string { return "widget_dialog_calls" }
