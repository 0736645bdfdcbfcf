package videotype

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/clients/youtube"
)

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var html5Extensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".ogv":  {},
	".ogg":  {},
}

// Registry resolves the provider handler for a video URL.
type Registry struct {
	captions youtube.Factory
}

func NewRegistry(captions youtube.Factory) repository.IVideoTypeRegistry {
	return &Registry{captions: captions}
}

func (r *Registry) VideoTypeForURL(raw string) (repository.IVideoType, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", raw, model.ErrUnsupportedURL)
	}

	if videoID, ok := youtubeVideoID(u); ok {
		return NewYouTubeVideoType(videoID, r.captions), nil
	}
	if _, ok := html5Extensions[strings.ToLower(path.Ext(u.Path))]; ok {
		return NewHTML5VideoType(u.String()), nil
	}
	return nil, fmt.Errorf("%q: %w", raw, model.ErrUnsupportedURL)
}

// youtubeVideoID extracts the id from watch, short, embed and /v/ links.
func youtubeVideoID(u *url.URL) (string, bool) {
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/embed/"))
		case strings.HasPrefix(u.Path, "/v/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/v/"))
		}
	case "youtu.be":
		id = firstSegment(strings.TrimPrefix(u.Path, "/"))
	}
	if id == "" || !youtubeIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstSegment(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
