package bot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"leaderboard-bot/internal/board"
	"leaderboard-bot/internal/roster"
)

const (
	placeSpan      = 4
	matchesPerPage = 10
	pagePrefix     = "mh"
	softHyphen     = "\u00ad"
	compactScore   = 100000
	maxKeyLen      = 40
	digestPrefix   = "~"
)

func (b *Bot) ranks(ctx context.Context, i *discordgo.Interaction) {
	lb, err := b.store.Load(ctx)
	if err != nil {
		b.fail(i, "ranks", err)
		return
	}
	gates := lb.Ladder().Descending()
	if len(gates) == 0 {
		b.respond(i, "No ranks configured")
		return
	}
	lines := make([]string, 0, len(gates))
	for _, g := range gates {
		lines = append(lines, fmt.Sprintf("%s - %d points", g.Label, g.Threshold))
	}
	b.respond(i, "```\n"+strings.Join(lines, "\n")+"\n```")
}

// lookup loads the roster and finds the player named by the command. It
// answers the user itself when there is nothing to show.
func (b *Bot) lookup(ctx context.Context, i *discordgo.Interaction, command, query string) (*roster.Leaderboard, *roster.Player, bool) {
	lb, err := b.store.Load(ctx)
	if err != nil {
		b.fail(i, command, err)
		return nil, nil, false
	}
	p := lb.Find(query, b.ids)
	if p == nil {
		b.respond(i, "Couldn't find player by id/name "+query)
		return nil, nil, false
	}
	if len(p.Matches) == 0 {
		b.respond(i, "No matches found with "+query)
		return nil, nil, false
	}
	return lb, p, true
}

func (b *Bot) place(ctx context.Context, i *discordgo.Interaction, opts options) {
	lb, p, ok := b.lookup(ctx, i, "place", opts.text("playfab_or_user_name"))
	if !ok {
		return
	}
	b.respond(i, "```\n"+board.Around(lb, p, placeSpan)+"\n```")
}

func (b *Bot) score(ctx context.Context, i *discordgo.Interaction, opts options) {
	lb, p, ok := b.lookup(ctx, i, "score", opts.text("playfab_or_user_name"))
	if !ok {
		return
	}
	b.respondEmbed(i, scoreEmbed(lb, p), nil)
}

func scoreEmbed(lb *roster.Leaderboard, p *roster.Player) *discordgo.MessageEmbed {
	total := p.TotalScore()
	medal := board.Medal(lb.PlayersAbove(p))

	embed := &discordgo.MessageEmbed{
		Title: "Score",
		Description: fmt.Sprintf("**%s** %s (%s)\n```%s Points```",
			medal, p.Name, p.PlayfabID, board.HumanCount(total, compactScore)),
		Color: embedColor,
	}

	ladder := lb.Ladder()
	rank := board.NoRank
	if g, ok := ladder.Current(total); ok {
		rank = g.Label
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Rank", Value: rank, Inline: true})
	if next, ok := ladder.Next(total); ok {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   softHyphen,
			Value:  fmt.Sprintf("%d to %s", next.Threshold-total, next.Label),
			Inline: true,
		})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: softHyphen, Value: softHyphen, Inline: true},
		&discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%d matches played", len(p.Matches)),
			Value: fmt.Sprintf("%d Kills | %d Deaths | %s%% Avg Structure Dmg",
				p.TotalKills(), p.TotalDeaths(), oneDecimal(p.AvgStructureDamage())),
			Inline: true,
		},
	)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Use /mh to check match history"}
	return embed
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func (b *Bot) matchHistory(ctx context.Context, i *discordgo.Interaction, opts options) {
	_, p, ok := b.lookup(ctx, i, "mh", opts.text("playfab_or_user_name"))
	if !ok {
		return
	}
	embed, components := historyPage(p, 0, userID(i))
	b.respondEmbed(i, embed, components)
}

// historyPage renders one page of a player's matches. Multi-page histories
// get Prev/Next buttons whose IDs carry the page, the requesting user and
// the player key.
func historyPage(p *roster.Player, page int, requester string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	pages := max(1, (len(p.Matches)+matchesPerPage-1)/matchesPerPage)
	page = min(max(page, 0), pages-1)

	embed := &discordgo.MessageEmbed{
		Title:       "Match History",
		Color:       embedColor,
		Description: fmt.Sprintf("%s (%s)", p.Name, p.PlayfabID),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Use /score to check aggregated stats"},
	}
	start := page * matchesPerPage
	end := min(len(p.Matches), start+matchesPerPage)
	for n, m := range p.Matches[start:end] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: humanize.Ordinal(start+n+1) + " match",
			Value: fmt.Sprintf("Score: %d | Kills: %d | Deaths: %d | Structure Damage: %d%%",
				m.Score, m.Kills, m.Deaths, m.StructureDamage),
		})
	}
	if pages == 1 {
		return embed, nil
	}

	embed.Footer.Text = fmt.Sprintf("Page %d/%d · %s", page+1, pages, embed.Footer.Text)
	key := playerKey(p)
	row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Prev",
			Style:    discordgo.SecondaryButton,
			CustomID: pageID(page-1, requester, key),
			Disabled: page == 0,
		},
		discordgo.Button{
			Label:    "Next",
			Style:    discordgo.PrimaryButton,
			CustomID: pageID(page+1, requester, key),
			Disabled: page == pages-1,
		},
	}}
	return embed, []discordgo.MessageComponent{row}
}

// playerKey identifies p inside a button custom ID, which Discord caps at
// 100 characters. Long keys are replaced by a digest.
func playerKey(p *roster.Player) string {
	key := p.PlayfabID
	if key == "" {
		key = p.Name
	}
	if len(key) > maxKeyLen || strings.HasPrefix(key, digestPrefix) {
		sum := sha256.Sum256([]byte(key))
		return digestPrefix + hex.EncodeToString(sum[:8])
	}
	return key
}

func pageID(page int, requester, key string) string {
	return fmt.Sprintf("%s:%d:%s:%s", pagePrefix, page, requester, key)
}

func parsePageID(id string) (page int, requester, key string, ok bool) {
	parts := strings.SplitN(id, ":", 4)
	if len(parts) != 4 || parts[0] != pagePrefix {
		return 0, "", "", false
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", "", false
	}
	return page, parts[2], parts[3], true
}

func (b *Bot) turnPage(ctx context.Context, i *discordgo.Interaction) {
	page, requester, key, ok := parsePageID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	if requester != userID(i) {
		err := b.dg.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Only the person who ran /mh can turn its pages",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			b.logger.Error("respond to page turn", "error", err)
		}
		return
	}

	lb, err := b.store.Load(ctx)
	if err != nil {
		b.fail(i, "mh", err)
		return
	}
	p := findByKey(lb, key, b.ids)
	if p == nil {
		b.respond(i, "Couldn't find player by id/name "+key)
		return
	}
	embed, components := historyPage(p, page, requester)
	err = b.dg.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		b.logger.Error("update match history page", "error", err)
	}
}

func findByKey(lb *roster.Leaderboard, key string, ids *roster.IDRule) *roster.Player {
	for _, p := range lb.Players {
		if playerKey(p) == key {
			return p
		}
	}
	return lb.Find(key, ids)
}
