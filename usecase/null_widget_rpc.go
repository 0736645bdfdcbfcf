package usecase

import (
	"context"

	"subtitle-widget/domain/model"
)

// NullWidgetRPC answers every widget method with canned data. Nothing is stored or mirrored.
type NullWidgetRPC struct{}

func NewNullWidgetRPC() RPCProvider {
	return &NullWidgetRPC{}
}

func (n *NullWidgetRPC) Methods() map[string]Method {
	ok := func(ctx context.Context, call *CallContext, args Args) (Result, error) {
		return Result{"response": "ok"}, nil
	}
	return map[string]Method{
		"show_widget":        {Params: showWidgetParams, Handler: n.showWidget},
		"start_editing":      {Params: startEditingParams, Handler: n.editing},
		"fetch_subtitles":    {Params: fetchParams, Handler: n.editing},
		"set_title":          {Params: setTitleParams, Handler: ok},
		"save_subtitles":     {Params: saveParams, Handler: n.saved},
		"finished_subtitles": {Params: finishedParams, Handler: n.finished},
		"fork":               {Params: videoLanguageParams, Handler: ok},
		"delete_language":    {Params: videoLanguageParams, Handler: ok},
	}
}

func (n *NullWidgetRPC) showWidget(ctx context.Context, call *CallContext, args Args) (Result, error) {
	videoID, _ := args.GetString("video_id")
	urls := []string{}
	if u, ok := args.GetString("video_url"); ok {
		urls = append(urls, u)
	}
	return Result{
		"video_id":   videoID,
		"title":      "",
		"video_urls": urls,
		"languages":  []model.SubtitleLanguage{},
	}, nil
}

func (n *NullWidgetRPC) editing(ctx context.Context, call *CallContext, args Args) (Result, error) {
	code, _ := args.GetString("language_code")
	return versionResult(Result{"can_edit": true, "language_code": code, "title": ""}, nil), nil
}

func (n *NullWidgetRPC) saved(ctx context.Context, call *CallContext, args Args) (Result, error) {
	return Result{"response": "ok", "version_no": 0}, nil
}

func (n *NullWidgetRPC) finished(ctx context.Context, call *CallContext, args Args) (Result, error) {
	return Result{"response": "ok", UserMessageKey: map[string]any{"body": finishedMessage}}, nil
}
