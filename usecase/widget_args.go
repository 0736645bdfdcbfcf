package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"

	"subtitle-widget/domain/model"
)

func (a Args) GetString(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	return fmt.Sprint(v), true
}

func (a Args) RequiredString(name string) (string, error) {
	s, ok := a.GetString(name)
	if !ok || s == "" {
		return "", fmt.Errorf("%s is required: %w", name, model.ErrValidation)
	}
	return s, nil
}

func (a Args) GetInt(name string) (int, bool) {
	switch n := a[name].(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func (a Args) GetBool(name string) (bool, bool) {
	b, ok := a[name].(bool)
	return b, ok
}

// Subtitles converts the decoded subtitles argument into model subtitles.
func (a Args) Subtitles(name string) ([]model.Subtitle, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var subs []model.Subtitle
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("subtitles: %w", model.ErrValidation)
	}
	return subs, nil
}
