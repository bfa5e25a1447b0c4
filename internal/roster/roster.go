// Package roster holds the players, their matches and the rank mapping
// that together make up the leaderboard.
package roster

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"leaderboard-bot/internal/gate"
)

// DefaultMaxItems is how many players the published board shows when the
// data file does not say otherwise.
const DefaultMaxItems = 30

// Match is the result of one game played by a player.
type Match struct {
	Kills           int `json:"kills"`
	Deaths          int `json:"deaths"`
	StructureDamage int `json:"structure_damage"`
	Score           int `json:"score"`
}

// Player is a roster entry.
type Player struct {
	Name      string  `json:"name"`
	PlayfabID string  `json:"playfab_id"`
	Matches   []Match `json:"matches"`
}

func (p *Player) TotalKills() int {
	n := 0
	for _, m := range p.Matches {
		n += m.Kills
	}
	return n
}

func (p *Player) TotalDeaths() int {
	n := 0
	for _, m := range p.Matches {
		n += m.Deaths
	}
	return n
}

func (p *Player) TotalScore() int {
	n := 0
	for _, m := range p.Matches {
		n += m.Score
	}
	return n
}

// AddMatch records a finished match.
func (p *Player) AddMatch(m Match) {
	p.Matches = append(p.Matches, m)
}

// AvgStructureDamage is the mean structure damage percent, 0 without matches.
func (p *Player) AvgStructureDamage() float64 {
	if len(p.Matches) == 0 {
		return 0
	}
	n := 0
	for _, m := range p.Matches {
		n += m.StructureDamage
	}
	return float64(n) / float64(len(p.Matches))
}

// Leaderboard is the persisted document.
type Leaderboard struct {
	Players    []*Player         `json:"players"`
	MaxItems   int               `json:"max_items"`
	RankConfig map[string]string `json:"rank_config"`
}

// New returns an empty leaderboard with defaults applied.
func New() *Leaderboard {
	return &Leaderboard{
		Players:    []*Player{},
		MaxItems:   DefaultMaxItems,
		RankConfig: map[string]string{},
	}
}

// Ladder converts the rank mapping into gates. Keys that are not integers
// do not take part.
func (lb *Leaderboard) Ladder() gate.Ladder {
	l, _ := gate.Parse(lb.RankConfig)
	return l
}

// SetRank adds or renames the rank unlocked at threshold.
func (lb *Leaderboard) SetRank(threshold int, label string) {
	if lb.RankConfig == nil {
		lb.RankConfig = map[string]string{}
	}
	lb.RankConfig[strconv.Itoa(threshold)] = label
}

// AddPlayer appends a player with no matches.
func (lb *Leaderboard) AddPlayer(name, playfabID string) *Player {
	p := &Player{Name: strings.TrimSpace(name), PlayfabID: strings.TrimSpace(playfabID), Matches: []Match{}}
	lb.Players = append(lb.Players, p)
	return p
}

// Find looks a player up by PlayFab ID when the query has that shape,
// then falls back to a case-insensitive name match.
func (lb *Leaderboard) Find(query string, ids *IDRule) *Player {
	q := strings.TrimSpace(query)
	if ids.Match(q) {
		for _, p := range lb.Players {
			if p.PlayfabID == q {
				return p
			}
		}
	}
	want := foldName(q)
	for _, p := range lb.Players {
		if foldName(p.Name) == want {
			return p
		}
	}
	return nil
}

// Ranked returns the players ordered by total score, highest first.
// Players with equal scores keep their roster order.
func (lb *Leaderboard) Ranked() []*Player {
	out := make([]*Player, len(lb.Players))
	copy(out, lb.Players)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore() > out[j].TotalScore() })
	return out
}

// Placement reports the index of p in Ranked.
func (lb *Leaderboard) Placement(p *Player) (int, bool) {
	for i, rp := range lb.Ranked() {
		if rp == p {
			return i, true
		}
	}
	return 0, false
}

// PlayersAbove counts players with a strictly higher total score.
func (lb *Leaderboard) PlayersAbove(p *Player) int {
	n := 0
	score := p.TotalScore()
	for _, other := range lb.Players {
		if other.TotalScore() > score {
			n++
		}
	}
	return n
}

// MaxMatches is the largest number of matches any player has played.
func (lb *Leaderboard) MaxMatches() int {
	n := 0
	for _, p := range lb.Players {
		if len(p.Matches) > n {
			n = len(p.Matches)
		}
	}
	return n
}

// foldName normalises a display name for comparison. Casers carry state,
// so each call gets its own.
func foldName(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}
