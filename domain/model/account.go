package model

import (
	"fmt"
	"time"
)

// AccountType mirrors the video type codes; a linked account belongs to the
// same provider as the video URLs it can push to.
type AccountType string

const (
	AccountTypeYouTube AccountType = "Y"
	AccountTypeHTML5   AccountType = "H"
)

var accountTypeNames = map[AccountType]string{
	AccountTypeYouTube: "Youtube",
	AccountTypeHTML5:   "HTML5",
}

// DisplayName returns the human readable provider name.
func (t AccountType) DisplayName() string {
	if name, ok := accountTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Valid reports whether t is a known provider type.
func (t AccountType) Valid() bool {
	_, ok := accountTypeNames[t]
	return ok
}

// ThirdPartyAccount links an external account (e.g. a YouTube channel) so
// subtitle edits can be pushed back to the provider. (Type, Username) is unique.
type ThirdPartyAccount struct {
	ID                int64       `json:"id"`
	Type              AccountType `json:"type"`
	Username          string      `json:"username"`
	OAuthAccessToken  string      `json:"-"`
	OAuthRefreshToken string      `json:"-"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (a *ThirdPartyAccount) String() string {
	return fmt.Sprintf("%s - %s", a.Type.DisplayName(), a.Username)
}
