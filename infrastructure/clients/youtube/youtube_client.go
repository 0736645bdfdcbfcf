package youtube

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// CaptionTrack is a caption track attached to a YouTube video.
type CaptionTrack struct {
	ID       string
	VideoID  string
	Language string
	Name     string
}

// ICaptionService is the part of the YouTube Data API used for mirroring.
type ICaptionService interface {
	ListCaptions(ctx context.Context, videoID string) ([]CaptionTrack, error)
	InsertCaption(ctx context.Context, track CaptionTrack, body io.Reader) error
	UpdateCaption(ctx context.Context, track CaptionTrack, body io.Reader) error
	DeleteCaption(ctx context.Context, captionID string) error
	MyChannelID(ctx context.Context) (string, error)
}

// Factory builds a caption service acting on behalf of a linked account.
type Factory func(ctx context.Context, account *model.ThirdPartyAccount) (ICaptionService, error)

// Client wraps the generated YouTube service.
type Client struct {
	service *youtube.Service
}

// NewClient creates a YouTube client authorized by token. onRefresh, when set,
// receives every token the source hands out after a refresh.
func NewClient(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token)) (*Client, error) {
	ts := &notifyingTokenSource{
		base:      oauth2.ReuseTokenSource(token, cfg.TokenSource(ctx, token)),
		last:      token.AccessToken,
		onRefresh: onRefresh,
	}
	service, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// NewAccountFactory returns a Factory that authorizes with the account's stored
// tokens and writes refreshed tokens back through accounts.
func NewAccountFactory(cfg *oauth2.Config, accounts repository.IThirdPartyAccount) Factory {
	return func(ctx context.Context, account *model.ThirdPartyAccount) (ICaptionService, error) {
		if account == nil {
			return nil, fmt.Errorf("no account to authorize YouTube calls")
		}
		token := accountToken(account)
		id := account.ID
		return NewClient(ctx, cfg, token, func(t *oauth2.Token) {
			// the request context may already be gone when the refresh lands
			if err := accounts.UpdateTokens(context.Background(), id, t.AccessToken, t.RefreshToken); err != nil {
				logger.GetLogger().WithField("error", err).WithField("account", id).Error("Failed to persist refreshed YouTube token")
				return
			}
			logger.GetLogger().WithField("account", id).WithField("expiry", t.Expiry).Info("YouTube token refreshed")
		})
	}
}

func accountToken(account *model.ThirdPartyAccount) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  account.OAuthAccessToken,
		RefreshToken: account.OAuthRefreshToken,
		TokenType:    "Bearer",
	}
	if account.OAuthRefreshToken != "" {
		// expiry is not stored, force a refresh on first use
		token.Expiry = time.Now().Add(-1 * time.Minute)
	}
	return token
}

func (c *Client) ListCaptions(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	response, err := c.service.Captions.List([]string{"id", "snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list captions of %s: %w", videoID, err)
	}
	tracks := make([]CaptionTrack, 0, len(response.Items))
	for _, item := range response.Items {
		track := CaptionTrack{ID: item.Id, VideoID: videoID}
		if item.Snippet != nil {
			track.Language = item.Snippet.Language
			track.Name = item.Snippet.Name
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (c *Client) InsertCaption(ctx context.Context, track CaptionTrack, body io.Reader) error {
	caption := &youtube.Caption{
		Snippet: &youtube.CaptionSnippet{
			VideoId:  track.VideoID,
			Language: track.Language,
			Name:     track.Name,
		},
	}
	if _, err := c.service.Captions.Insert([]string{"snippet"}, caption).Media(body).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert %s captions on %s: %w", track.Language, track.VideoID, err)
	}
	return nil
}

func (c *Client) UpdateCaption(ctx context.Context, track CaptionTrack, body io.Reader) error {
	caption := &youtube.Caption{
		Id: track.ID,
		Snippet: &youtube.CaptionSnippet{
			VideoId:  track.VideoID,
			Language: track.Language,
			Name:     track.Name,
		},
	}
	if _, err := c.service.Captions.Update([]string{"snippet"}, caption).Media(body).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update caption %s: %w", track.ID, err)
	}
	return nil
}

func (c *Client) DeleteCaption(ctx context.Context, captionID string) error {
	if err := c.service.Captions.Delete(captionID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete caption %s: %w", captionID, err)
	}
	return nil
}

// MyChannelID returns the channel of the authorized user.
func (c *Client) MyChannelID(ctx context.Context) (string, error) {
	response, err := c.service.Channels.List([]string{"id"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get my channel: %w", err)
	}
	if len(response.Items) == 0 {
		return "", fmt.Errorf("no channel found for authenticated user")
	}
	return response.Items[0].Id, nil
}

type notifyingTokenSource struct {
	mu        sync.Mutex
	base      oauth2.TokenSource
	last      string
	onRefresh func(*oauth2.Token)
}

func (s *notifyingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	s.mu.Lock()
	changed := token.AccessToken != s.last
	s.last = token.AccessToken
	s.mu.Unlock()
	if changed && s.onRefresh != nil {
		s.onRefresh(token)
	}
	return token, nil
}
