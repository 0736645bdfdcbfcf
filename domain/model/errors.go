package model

import "errors"

var (
	ErrUnsupportedAction    = errors.New("mirror to third party does not support this action")
	ErrImproperlyConfigured = errors.New("improperly configured")
	ErrAccountNotFound      = errors.New("third party account not found")
	ErrSyncRuleNotFound     = errors.New("youtube sync rule not found")
	ErrVideoNotFound        = errors.New("video not found")
	ErrLanguageNotFound     = errors.New("subtitle language not found")
	ErrVersionNotFound      = errors.New("subtitle version not found")
	ErrUnsupportedURL       = errors.New("unsupported video url")
	ErrValidation           = errors.New("validation failed")
)
