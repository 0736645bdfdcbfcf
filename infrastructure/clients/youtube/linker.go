package youtube

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// ILinker runs the OAuth flow that links a YouTube channel.
type ILinker interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	ChannelID(ctx context.Context, token *oauth2.Token) (string, error)
}

type Linker struct {
	config *oauth2.Config
}

func NewLinker(config *oauth2.Config) ILinker {
	return &Linker{config: config}
}

// AuthCodeURL asks for offline access so a refresh token is issued.
func (l *Linker) AuthCodeURL(state string) string {
	return l.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (l *Linker) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := l.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

func (l *Linker) ChannelID(ctx context.Context, token *oauth2.Token) (string, error) {
	client, err := NewClient(ctx, l.config, token, nil)
	if err != nil {
		return "", err
	}
	return client.MyChannelID(ctx)
}
