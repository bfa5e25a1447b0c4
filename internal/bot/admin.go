package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"leaderboard-bot/internal/board"
	"leaderboard-bot/internal/roster"
)

// replyError is a rejected command; its text goes back to the user as is.
type replyError string

func (e replyError) Error() string { return string(e) }

func (b *Bot) admin(ctx context.Context, i *discordgo.Interaction, subs []*discordgo.ApplicationCommandInteractionDataOption) {
	if b.cfgChan != "" && i.ChannelID != b.cfgChan {
		b.respond(i, "Unauthorized")
		return
	}
	if len(subs) == 0 {
		b.respond(i, "Unknown command")
		return
	}
	sub := subs[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "reload":
		b.reload(ctx, i, opts.flag("force_rewrite"))
	case "set_rank":
		b.mutate(ctx, i, sub.Name, func(lb *roster.Leaderboard) error {
			lb.SetRank(opts.number("score_gate"), opts.text("rank_name"))
			return nil
		})
	case "max_leaderboard":
		b.mutate(ctx, i, sub.Name, func(lb *roster.Leaderboard) error {
			n := opts.number("max")
			if n < 1 {
				return replyError("max must be at least 1")
			}
			lb.MaxItems = n
			return nil
		})
	case "add_player":
		id := strings.TrimSpace(opts.text("playfab_id"))
		b.mutate(ctx, i, sub.Name, func(lb *roster.Leaderboard) error {
			for _, p := range lb.Players {
				if p.PlayfabID == id {
					return replyError("Player " + id + " already exists")
				}
			}
			lb.AddPlayer(opts.text("user_name"), id)
			return nil
		})
	case "add_match":
		query := opts.text("playfab_or_user_name")
		b.mutate(ctx, i, sub.Name, func(lb *roster.Leaderboard) error {
			p := lb.Find(query, b.ids)
			if p == nil {
				return replyError("Couldn't find player by id/name " + query)
			}
			p.AddMatch(roster.Match{
				Kills:           opts.number("kills"),
				Deaths:          opts.number("deaths"),
				StructureDamage: opts.number("structure_damage_percent"),
				Score:           opts.number("score"),
			})
			return nil
		})
	case "metadata":
		b.metadata(ctx, i)
	default:
		b.respond(i, "Unknown command")
	}
}

func (b *Bot) reload(ctx context.Context, i *discordgo.Interaction, force bool) {
	lb, err := b.store.Load(ctx)
	if err != nil {
		b.fail(i, "reload", err)
		return
	}
	if err := b.pub.Publish(ctx, lb, force); err != nil {
		b.fail(i, "reload", err)
		return
	}
	b.respond(i, "Done")
}

// mutate applies fn to the stored leaderboard, saves it and republishes
// the board.
func (b *Bot) mutate(ctx context.Context, i *discordgo.Interaction, command string, fn func(*roster.Leaderboard) error) {
	lb, err := b.store.Update(ctx, fn)
	var rejected replyError
	switch {
	case errors.As(err, &rejected):
		b.respond(i, rejected.Error())
		return
	case err != nil:
		b.fail(i, command, err)
		return
	}
	b.logger.Info("leaderboard updated", "command", command, "user", userID(i))

	if err := b.pub.Publish(ctx, lb, false); err != nil {
		b.logger.Warn("publish after update", "command", command, "error", err)
	}
	b.respond(i, "Done")
}

func (b *Bot) metadata(ctx context.Context, i *discordgo.Interaction) {
	lb, err := b.store.Load(ctx)
	if err != nil {
		b.fail(i, "metadata", err)
		return
	}
	size, err := b.store.Size()
	if err != nil {
		b.fail(i, "metadata", err)
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       "Metadata",
		Color:       embedColor,
		Description: "Data file size: " + board.FileSize(size),
		Fields: []*discordgo.MessageEmbedField{{
			Name:   fmt.Sprintf("%d players in the system", len(lb.Players)),
			Value:  fmt.Sprintf("Max %d matches played", lb.MaxMatches()),
			Inline: true,
		}},
	}
	b.respondEmbed(i, embed, nil)
}
