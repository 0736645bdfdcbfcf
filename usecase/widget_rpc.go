package usecase

import (
	"context"
	"errors"
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"
)

const finishedMessage = "Your subtitles have been saved. Thank you!"

// WidgetRPC is the live widget method set, backed by the video store and the mirror engine.
type WidgetRPC struct {
	videos repository.IVideo
	mirror IMirrorUsecase
}

func NewWidgetRPC(videos repository.IVideo, mirror IMirrorUsecase) RPCProvider {
	return &WidgetRPC{videos: videos, mirror: mirror}
}

var (
	videoLanguageParams = []Param{{Name: "video_id", Required: true}, {Name: "language_code", Required: true}}
	showWidgetParams    = []Param{{Name: "video_url"}, {Name: "video_id"}}
	startEditingParams  = append(append([]Param{}, videoLanguageParams...), Param{Name: "base_version_no"})
	fetchParams         = append(append([]Param{}, videoLanguageParams...), Param{Name: "version_no"})
	setTitleParams      = append(append([]Param{}, videoLanguageParams...), Param{Name: "title", Required: true})
	saveParams          = append(append([]Param{}, videoLanguageParams...), Param{Name: "subtitles", Required: true}, Param{Name: "is_complete"})
	finishedParams      = append(append([]Param{}, videoLanguageParams...), Param{Name: "subtitles"})
)

func (w *WidgetRPC) Methods() map[string]Method {
	return map[string]Method{
		"show_widget":        {Params: showWidgetParams, Handler: w.showWidget},
		"start_editing":      {Params: startEditingParams, Handler: w.startEditing},
		"fetch_subtitles":    {Params: fetchParams, Handler: w.fetchSubtitles},
		"set_title":          {Params: setTitleParams, Handler: w.setTitle},
		"save_subtitles":     {Params: saveParams, Handler: w.saveSubtitles},
		"finished_subtitles": {Params: finishedParams, Handler: w.finishedSubtitles},
		"fork":               {Params: videoLanguageParams, Handler: w.fork},
		"delete_language":    {Params: videoLanguageParams, Handler: w.deleteLanguage},
	}
}

func (w *WidgetRPC) showWidget(ctx context.Context, call *CallContext, args Args) (Result, error) {
	var (
		video *model.Video
		err   error
	)
	if id, ok := args.GetString("video_id"); ok && id != "" {
		video, err = w.videos.GetByVideoID(ctx, id)
	} else if u, ok := args.GetString("video_url"); ok && u != "" {
		video, err = w.videos.GetByURL(ctx, u)
	} else {
		return nil, fmt.Errorf("video_url or video_id is required: %w", model.ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	languages, err := w.videos.ListLanguages(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(video.URLs))
	for _, u := range video.URLs {
		urls = append(urls, u.URL)
	}
	return Result{
		"video_id":   video.VideoID,
		"title":      video.Title,
		"video_urls": urls,
		"languages":  languages,
	}, nil
}

func (w *WidgetRPC) startEditing(ctx context.Context, call *CallContext, args Args) (Result, error) {
	video, language, err := w.videoLanguage(ctx, args, true)
	if err != nil {
		return nil, err
	}
	var version *model.SubtitleVersion
	if n, ok := args.GetInt("base_version_no"); ok {
		version, err = w.videos.GetVersion(ctx, language.ID, n)
	} else {
		version, err = w.videos.LatestVersion(ctx, language.ID)
	}
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("videoId", video.VideoID).WithField("language", language.LanguageCode).WithField("browserId", call.BrowserID).Info("Editing started")
	return versionResult(Result{"can_edit": true, "language_code": language.LanguageCode, "title": language.Title}, version), nil
}

func (w *WidgetRPC) fetchSubtitles(ctx context.Context, call *CallContext, args Args) (Result, error) {
	_, language, err := w.videoLanguage(ctx, args, false)
	if err != nil {
		return nil, err
	}
	var version *model.SubtitleVersion
	if n, ok := args.GetInt("version_no"); ok {
		version, err = w.videos.GetVersion(ctx, language.ID, n)
	} else {
		version, err = w.videos.LatestVersion(ctx, language.ID)
	}
	if err != nil {
		return nil, err
	}
	return versionResult(Result{
		"language_code": language.LanguageCode,
		"title":         language.Title,
		"is_complete":   language.IsComplete,
	}, version), nil
}

func (w *WidgetRPC) setTitle(ctx context.Context, call *CallContext, args Args) (Result, error) {
	_, language, err := w.videoLanguage(ctx, args, false)
	if err != nil {
		return nil, err
	}
	language.Title, _ = args.GetString("title")
	if err := w.videos.SaveLanguage(ctx, language); err != nil {
		return nil, err
	}
	return Result{"response": "ok"}, nil
}

func (w *WidgetRPC) saveSubtitles(ctx context.Context, call *CallContext, args Args) (Result, error) {
	version, err := w.save(ctx, args, false)
	if err != nil {
		return nil, err
	}
	return Result{"response": "ok", "version_no": version.VersionNo}, nil
}

func (w *WidgetRPC) finishedSubtitles(ctx context.Context, call *CallContext, args Args) (Result, error) {
	version, err := w.save(ctx, args, true)
	if err != nil {
		return nil, err
	}
	result := Result{"response": "ok", UserMessageKey: map[string]any{"body": finishedMessage}}
	if version != nil {
		result["version_no"] = version.VersionNo
	}
	return result, nil
}

func (w *WidgetRPC) fork(ctx context.Context, call *CallContext, args Args) (Result, error) {
	_, language, err := w.videoLanguage(ctx, args, false)
	if err != nil {
		return nil, err
	}
	language.IsForked = true
	if err := w.videos.SaveLanguage(ctx, language); err != nil {
		return nil, err
	}
	return Result{"response": "ok", "is_forked": true}, nil
}

func (w *WidgetRPC) deleteLanguage(ctx context.Context, call *CallContext, args Args) (Result, error) {
	video, language, err := w.videoLanguage(ctx, args, false)
	if err != nil {
		return nil, err
	}
	if err := w.videos.DeleteLanguage(ctx, language.ID); err != nil {
		return nil, err
	}
	if err := w.mirror.Mirror(ctx, video, language, model.DeleteLanguageAction, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to mirror language deletion")
	}
	return Result{"response": "ok"}, nil
}

// save stores a new public version when subtitles were sent and mirrors it.
// finished marks the language complete; without subtitles it returns a nil version.
func (w *WidgetRPC) save(ctx context.Context, args Args, finished bool) (*model.SubtitleVersion, error) {
	video, language, err := w.videoLanguage(ctx, args, true)
	if err != nil {
		return nil, err
	}
	subtitles, err := args.Subtitles("subtitles")
	if err != nil {
		return nil, err
	}

	complete, ok := args.GetBool("is_complete")
	if finished {
		complete, ok = true, true
	}
	if ok && complete != language.IsComplete {
		language.IsComplete = complete
		if err := w.videos.SaveLanguage(ctx, language); err != nil {
			return nil, err
		}
	}

	if _, sent := args["subtitles"]; !sent {
		return nil, nil
	}
	version := &model.SubtitleVersion{
		LanguagePK:   language.ID,
		LanguageCode: language.LanguageCode,
		IsPublic:     true,
		Subtitles:    subtitles,
	}
	if err := w.videos.CreateVersion(ctx, version); err != nil {
		return nil, err
	}
	if version.Mirrorable() {
		if err := w.mirror.Mirror(ctx, video, language, model.UpdateVersionAction, version); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed to mirror subtitle version")
		}
	}
	return version, nil
}

// videoLanguage loads the video and language named by the arguments, creating
// the language when create is set.
func (w *WidgetRPC) videoLanguage(ctx context.Context, args Args, create bool) (*model.Video, *model.SubtitleLanguage, error) {
	videoID, err := args.RequiredString("video_id")
	if err != nil {
		return nil, nil, err
	}
	code, err := args.RequiredString("language_code")
	if err != nil {
		return nil, nil, err
	}
	video, err := w.videos.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}
	language, err := w.videos.GetLanguage(ctx, video.ID, code)
	if errors.Is(err, model.ErrLanguageNotFound) && create {
		language = &model.SubtitleLanguage{VideoPK: video.ID, LanguageCode: code}
		err = w.videos.SaveLanguage(ctx, language)
	}
	if err != nil {
		return nil, nil, err
	}
	return video, language, nil
}

func versionResult(r Result, version *model.SubtitleVersion) Result {
	r["version_no"] = 0
	r["subtitles"] = []model.Subtitle{}
	if version != nil {
		r["version_no"] = version.VersionNo
		if version.Subtitles != nil {
			r["subtitles"] = version.Subtitles
		}
	}
	return r
}
