package model

import (
	"strconv"
	"strings"
	"time"
)

const syncRuleWildcard = "*"

// SyncRule decides which videos are always synced back to YouTube through the
// always-push account. Each field is a comma separated list; "*" matches anything.
// Only one rule is expected to exist.
type SyncRule struct {
	ID        int64     `json:"id"`
	Team      string    `json:"team"`
	User      string    `json:"user"`
	Video     string    `json:"video"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *SyncRule) String() string { return "Youtube sync rule" }

// TeamInList reports whether the team slug is listed. Videos without a team never match
// unless the list holds the wildcard.
func (r *SyncRule) TeamInList(slug string) bool {
	return inList(r.Team, slug)
}

func (r *SyncRule) UserInList(username string) bool {
	return inList(r.User, username)
}

// VideoInList matches the video primary key. Members that are not integers are ignored.
func (r *SyncRule) VideoInList(videoPK int64) bool {
	for _, member := range splitList(r.Video) {
		if member == syncRuleWildcard {
			return true
		}
		pk, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		if pk == videoPK {
			return true
		}
	}
	return false
}

// ShouldSync reports whether changes to video must always be pushed.
func (r *SyncRule) ShouldSync(video *Video) bool {
	if r == nil || video == nil {
		return false
	}
	return r.TeamInList(video.TeamSlug) ||
		r.UserInList(video.OwnerUsername) ||
		r.VideoInList(video.ID)
}

// CleanTeams returns the distinct non-wildcard team slugs of the rule.
func (r *SyncRule) CleanTeams() []string { return cleanList(r.Team) }

// CleanUsers returns the distinct non-wildcard usernames of the rule.
func (r *SyncRule) CleanUsers() []string { return cleanList(r.User) }

func splitList(field string) []string {
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func inList(field, value string) bool {
	for _, member := range splitList(field) {
		if member == syncRuleWildcard {
			return true
		}
		if value != "" && member == value {
			return true
		}
	}
	return false
}

func cleanList(field string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, member := range splitList(field) {
		if member == syncRuleWildcard {
			continue
		}
		if _, ok := seen[member]; ok {
			continue
		}
		seen[member] = struct{}{}
		out = append(out, member)
	}
	return out
}
