package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player is the full normalized record built from an upstream player payload.
// It is produced by the normalizer only and treated as read-only afterwards:
// cached instances are shared between callers.
type Player struct {
	UUID              string                            `json:"uuid"`
	Username          string                            `json:"username"`
	Online            bool                              `json:"online"`
	Rank              string                            `json:"rank"`
	RankPlusColor     string                            `json:"rank_plus_color,omitempty"`
	Prefix            string                            `json:"prefix,omitempty"`
	Level             float64                           `json:"level"`
	Exp               int64                             `json:"exp"`
	Karma             int64                             `json:"karma"`
	AchievementPoints int64                             `json:"achievement_points"`
	QuestsCompleted   int64                             `json:"quests_completed"`
	TotalKills        int64                             `json:"total_kills"`
	TotalWins         int64                             `json:"total_wins"`
	TotalCoins        int64                             `json:"total_coins"`
	MCVersion         string                            `json:"mc_version,omitempty"`
	FirstLogin        *time.Time                        `json:"first_login,omitempty"`
	LastLogin         *time.Time                        `json:"last_login,omitempty"`
	LastGame          string                            `json:"last_game,omitempty"`
	Stats             map[string]map[string]interface{} `json:"stats,omitempty"`
}

// Profile is the summary of a Player attached to identity refs and kept in the
// persistent profile cache.
type Profile struct {
	UUID              string     `json:"uuid"`
	Username          string     `json:"username"`
	Rank              string     `json:"rank"`
	RankPlusColor     string     `json:"rank_plus_color,omitempty"`
	Prefix            string     `json:"prefix,omitempty"`
	Level             float64    `json:"level"`
	Karma             int64      `json:"karma"`
	AchievementPoints int64      `json:"achievement_points"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	LastGame          string     `json:"last_game,omitempty"`
}

// Profile derives the summary fields of p, stamped with p's identity key
func (p *Player) Profile() *Profile {
	return p.ProfileFor(p.UUID)
}

// ProfileFor derives the summary fields of p and injects key as the identity key
func (p *Player) ProfileFor(key string) *Profile {
	profile := &Profile{
		UUID:              key,
		Username:          p.Username,
		Rank:              p.Rank,
		RankPlusColor:     p.RankPlusColor,
		Prefix:            p.Prefix,
		Level:             p.Level,
		Karma:             p.Karma,
		AchievementPoints: p.AchievementPoints,
		LastGame:          p.LastGame,
	}
	if p.LastLogin != nil {
		t := *p.LastLogin
		profile.LastLogin = &t
	}
	return profile
}

// CanonicalUUID normalizes any UUID spelling (dashed, undashed, urn, braced) to the
// undashed lowercase form used as identity key. ok is false when s is not a UUID.
func CanonicalUUID(s string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(id.String(), "-", ""), true
}
