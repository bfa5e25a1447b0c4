// Package board renders the leaderboard and keeps its channel messages
// up to date.
package board

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"leaderboard-bot/internal/gate"
	"leaderboard-bot/internal/roster"
)

// NoRank is shown for players that have not reached any gate.
const NoRank = "None"

var header = []string{"#", "Name", "Rank", "Score", "K", "D"}

// Row is one rendered leaderboard line.
type Row struct {
	Place  int
	Name   string
	Rank   string
	Score  int
	Kills  int
	Deaths int
}

// Rows builds table rows for players in the given order, numbering them
// from start+1.
func Rows(players []*roster.Player, ladder gate.Ladder, start int) []Row {
	rows := make([]Row, 0, len(players))
	for i, p := range players {
		score := p.TotalScore()
		rank := NoRank
		if g, ok := ladder.Current(score); ok {
			rank = g.Label
		}
		rows = append(rows, Row{
			Place:  start + i + 1,
			Name:   p.Name,
			Rank:   rank,
			Score:  score,
			Kills:  p.TotalKills(),
			Deaths: p.TotalDeaths(),
		})
	}
	return rows
}

// Top renders the first limit players of lb by score.
func Top(lb *roster.Leaderboard, limit int) string {
	ranked := lb.Ranked()
	if limit >= 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return Table(Rows(ranked, lb.Ladder(), 0))
}

// Around renders up to span players either side of p in score order.
func Around(lb *roster.Leaderboard, p *roster.Player, span int) string {
	ranked := lb.Ranked()
	idx := 0
	for i, rp := range ranked {
		if rp == p {
			idx = i
			break
		}
	}
	start := max(0, idx-span)
	end := min(len(ranked), idx+span+1)
	return Table(Rows(ranked[start:end], lb.Ladder(), start))
}

// Table draws rows as a boxed, centred text table.
func Table(rows []Row) string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(r.Place),
			r.Name,
			r.Rank,
			HumanCount(r.Score, 1000),
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
		})
	}

	widths := make([]int, len(header))
	for _, line := range cells {
		for i, c := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	inner := len(widths) - 1
	for _, w := range widths {
		inner += w + 2
	}

	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", inner) + "╗\n")
	for i, line := range cells {
		b.WriteString("║")
		for j, c := range line {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(" " + center(c, widths[j]) + " ")
		}
		b.WriteString("║\n")
		if i == 0 {
			b.WriteString("╟" + strings.Repeat("─", inner) + "╢\n")
		}
	}
	b.WriteString("╚" + strings.Repeat("═", inner) + "╝")
	return b.String()
}

func center(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
