// Package normalizer turns raw upstream player payloads into models.Player records.
package normalizer

import (
	"math"
	"time"

	"github.com/tidwall/gjson"

	"player-profiles/internal/common/errors"
	"player-profiles/internal/models"
)

// Network level curve constants
const (
	levelBase        = 10000.0
	levelGrowth      = 2500.0
	reversePQPrefix  = -(levelBase - 0.5*levelGrowth) / levelGrowth
	reverseConst     = reversePQPrefix * reversePQPrefix
	growthDivides2   = 2 / levelGrowth
	defaultRank      = "NONE"
	superstarPackage = "SUPERSTAR"
)

// Normalizer converts the raw JSON of one upstream player object into a Player
type Normalizer struct{}

// New creates a Normalizer
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize parses raw and builds a Player. Malformed input yields a transform error.
func (n *Normalizer) Normalize(raw []byte) (*models.Player, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.TransformError("player payload is not valid JSON", nil)
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, errors.TransformError("player payload is not an object", nil)
	}

	uuid, ok := models.CanonicalUUID(doc.Get("uuid").String())
	if !ok {
		return nil, errors.TransformError("player payload has no valid uuid", nil).
			WithContext("uuid", doc.Get("uuid").String())
	}

	exp := doc.Get("networkExp").Int()
	player := &models.Player{
		UUID:              uuid,
		Username:          doc.Get("displayname").String(),
		Rank:              rank(doc),
		RankPlusColor:     doc.Get("rankPlusColor").String(),
		Prefix:            doc.Get("prefix").String(),
		Exp:               exp,
		Level:             networkLevel(exp),
		Karma:             doc.Get("karma").Int(),
		AchievementPoints: doc.Get("achievementPoints").Int(),
		QuestsCompleted:   questsCompleted(doc.Get("quests")),
		MCVersion:         doc.Get("mcVersionRp").String(),
		FirstLogin:        millisTime(doc.Get("firstLogin")),
		LastLogin:         millisTime(doc.Get("lastLogin")),
		LastGame:          doc.Get("mostRecentGameType").String(),
	}

	lastLogout := doc.Get("lastLogout").Int()
	player.Online = player.LastLogin != nil && doc.Get("lastLogin").Int() > lastLogout

	stats := doc.Get("stats")
	if stats.Exists() && !stats.IsObject() {
		return nil, errors.TransformError("player stats are not an object", nil).WithContext("uuid", uuid)
	}
	player.Stats = make(map[string]map[string]interface{})
	stats.ForEach(func(game, body gjson.Result) bool {
		if !body.IsObject() {
			return true
		}
		fields := make(map[string]interface{})
		body.ForEach(func(k, v gjson.Result) bool {
			fields[k.String()] = v.Value()
			return true
		})
		player.Stats[game.String()] = fields

		player.TotalKills += body.Get("kills").Int()
		player.TotalWins += body.Get("wins").Int()
		player.TotalCoins += body.Get("coins").Int()
		return true
	})

	return player, nil
}

// rank resolves the displayed rank: staff rank, then monthly, new, and legacy package ranks
func rank(doc gjson.Result) string {
	if r := doc.Get("rank").String(); r != "" && r != "NORMAL" {
		return r
	}
	if doc.Get("monthlyPackageRank").String() == superstarPackage {
		return "MVP_PLUS_PLUS"
	}
	if r := doc.Get("newPackageRank").String(); r != "" && r != defaultRank {
		return r
	}
	if r := doc.Get("packageRank").String(); r != "" && r != defaultRank {
		return r
	}
	return defaultRank
}

// networkLevel converts network experience to a fractional level, rounded to two decimals
func networkLevel(exp int64) float64 {
	if exp <= 0 {
		return 1
	}
	level := 1 + reversePQPrefix + math.Sqrt(reverseConst+growthDivides2*float64(exp))
	return math.Round(level*100) / 100
}

func questsCompleted(quests gjson.Result) int64 {
	var total int64
	quests.ForEach(func(_, quest gjson.Result) bool {
		total += int64(len(quest.Get("completions").Array()))
		return true
	})
	return total
}

func millisTime(v gjson.Result) *time.Time {
	if !v.Exists() || v.Int() <= 0 {
		return nil
	}
	t := time.UnixMilli(v.Int()).UTC()
	return &t
}
