package youtube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"subtitle-widget/domain/model"
)

type staticTokenSource struct {
	tokens []*oauth2.Token
	err    error
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	t := s.tokens[0]
	if len(s.tokens) > 1 {
		s.tokens = s.tokens[1:]
	}
	return t, nil
}

func TestNotifyingTokenSource_ReportsOnlyNewTokens(t *testing.T) {
	var refreshed []string
	ts := &notifyingTokenSource{
		base: &staticTokenSource{tokens: []*oauth2.Token{
			{AccessToken: "old"},
			{AccessToken: "new"},
			{AccessToken: "new"},
		}},
		last:      "old",
		onRefresh: func(tok *oauth2.Token) { refreshed = append(refreshed, tok.AccessToken) },
	}

	for i := 0; i < 3; i++ {
		_, err := ts.Token()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"new"}, refreshed)
}

func TestNotifyingTokenSource_WrapsErrors(t *testing.T) {
	ts := &notifyingTokenSource{base: &staticTokenSource{err: errors.New("invalid_grant")}}
	_, err := ts.Token()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to refresh token")
}

func TestAccountToken(t *testing.T) {
	withRefresh := accountToken(&model.ThirdPartyAccount{OAuthAccessToken: "a", OAuthRefreshToken: "r"})
	assert.Equal(t, "a", withRefresh.AccessToken)
	assert.True(t, withRefresh.Expiry.Before(time.Now()))

	accessOnly := accountToken(&model.ThirdPartyAccount{OAuthAccessToken: "a"})
	assert.True(t, accessOnly.Expiry.IsZero())
}

func TestNewAccountFactory_RequiresAccount(t *testing.T) {
	factory := NewAccountFactory(&oauth2.Config{}, nil)
	_, err := factory(context.Background(), nil)
	assert.Error(t, err)
}

func TestLinker_AuthCodeURL(t *testing.T) {
	linker := NewLinker(&oauth2.Config{
		ClientID:    "client",
		RedirectURL: "http://localhost:10001/auth/youtube/callback",
		Endpoint:    oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth"},
	})
	u := linker.AuthCodeURL("xyz")
	assert.Contains(t, u, "state=xyz")
	assert.Contains(t, u, "access_type=offline")
	assert.Contains(t, u, "prompt=consent")
}
