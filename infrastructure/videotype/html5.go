package videotype

import "subtitle-widget/domain/model"

// HTML5VideoType is a directly hosted media file. It cannot receive subtitles.
type HTML5VideoType struct {
	url string
}

func NewHTML5VideoType(url string) *HTML5VideoType {
	return &HTML5VideoType{url: url}
}

func (t *HTML5VideoType) Name() string                   { return "HTML5" }
func (t *HTML5VideoType) AccountType() model.AccountType { return model.AccountTypeHTML5 }
