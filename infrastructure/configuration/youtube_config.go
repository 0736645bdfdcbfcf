package configuration

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// YouTubeOAuthConfig builds the OAuth2 client used both for linking accounts and
// for pushing captions on behalf of a linked account.
func YouTubeOAuthConfig(cfg YouTube) *oauth2.Config {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{
			youtube.YoutubeScope,
			youtube.YoutubeForceSslScope,
		}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}
