// Package bot wires the leaderboard into Discord: slash commands, the
// published board and its refresh loop.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bwmarrin/discordgo"

	"leaderboard-bot/internal/board"
	"leaderboard-bot/internal/roster"
)

const embedColor = 15844367

// Session is the part of *discordgo.Session the bot talks to.
type Session interface {
	board.Messenger
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Gateway is the connection lifecycle of *discordgo.Session.
type Gateway interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

// Config configures a Bot.
type Config struct {
	Session            Session
	Store              *roster.Store
	Publisher          *board.Publisher
	IDs                *roster.IDRule
	LeaderboardChannel string
	ConfigChannel      string
	RefreshInterval    time.Duration
	WatchDataFile      bool
	Logger             *slog.Logger
}

// Bot answers slash commands and keeps the leaderboard channel current.
type Bot struct {
	dg        Session
	store     *roster.Store
	pub       *board.Publisher
	ids       *roster.IDRule
	boardChan string
	cfgChan   string
	refresh   time.Duration
	watch     bool
	logger    *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	closing bool
	wg      sync.WaitGroup

	startMu sync.Mutex
	started bool
}

// New creates a Bot.
func New(cfg Config) *Bot {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = board.NewPublisher(board.PublisherConfig{
			Messenger: cfg.Session,
			ChannelID: cfg.LeaderboardChannel,
			Logger:    cfg.Logger,
		})
	}
	return &Bot{
		dg:        cfg.Session,
		store:     cfg.Store,
		pub:       cfg.Publisher,
		ids:       cfg.IDs,
		boardChan: cfg.LeaderboardChannel,
		cfgChan:   cfg.ConfigChannel,
		refresh:   cfg.RefreshInterval,
		watch:     cfg.WatchDataFile,
		logger:    cfg.Logger,
		ctx:       context.Background(),
	}
}

// Run connects through gw and serves until ctx is done.
func (b *Bot) Run(ctx context.Context, gw Gateway) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	gw.AddHandler(b.onReady)
	gw.AddHandler(b.onInteractionCreate)
	if err := gw.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	b.logger.Info("leaderboard bot is running")
	<-ctx.Done()

	b.mu.Lock()
	b.closing = true
	b.mu.Unlock()
	if err := gw.Close(); err != nil {
		b.logger.Warn("close discord session", "error", err)
	}
	b.wg.Wait()
	b.pub.Wait()
	return nil
}

// goBackground runs fn on a tracked goroutine unless Run is shutting down.
func (b *Bot) goBackground(fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closing {
		return false
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
	return true
}

func (b *Bot) baseContext() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.handleReady(r.User)
}

func (b *Bot) handleReady(u *discordgo.User) {
	ctx := b.baseContext()
	if ctx.Err() != nil {
		return
	}
	b.logger.Info("connected to discord", "user", u.Username)
	if err := b.RegisterCommands(u.ID); err != nil {
		b.logger.Error("register commands", "error", err)
	}
	b.goBackground(func() {
		if err := b.Start(ctx); err != nil {
			b.logger.Error("start leaderboard, retrying on next ready", "error", err)
		}
	})
}

// RegisterCommands replaces the application's global slash commands.
func (b *Bot) RegisterCommands(appID string) error {
	if _, err := b.dg.ApplicationCommandBulkOverwrite(appID, "", Commands()); err != nil {
		return fmt.Errorf("overwrite commands: %w", err)
	}
	return nil
}

// Start resolves the leaderboard channel, clears the previous run's
// messages, publishes the board and launches the refresh loop and the data
// file watcher. Once a call succeeds later ones do nothing; after a failure
// the next call starts over.
func (b *Bot) Start(ctx context.Context) error {
	b.startMu.Lock()
	defer b.startMu.Unlock()
	if b.started {
		return nil
	}

	if b.boardChan == "" {
		b.started = true
		b.logger.Warn("LEADERBOARD_CHANNEL not set, board publishing disabled")
		return nil
	}
	if err := b.resolveChannel(ctx); err != nil {
		return err
	}
	if err := b.pub.DeletePrevious(ctx); err != nil {
		b.logger.Warn("clear previous board", "error", err)
	}
	lb, err := b.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := b.pub.Publish(ctx, lb, false); err != nil {
		b.logger.Error("publish leaderboard", "error", err)
	}

	b.started = true
	b.goBackground(func() {
		b.pub.Refresh(ctx, b.refresh, b.store)
	})
	if b.watch {
		b.goBackground(func() {
			err := b.store.Watch(ctx, func(lb *roster.Leaderboard) {
				if err := b.pub.Publish(ctx, lb, false); err != nil {
					b.logger.Error("publish after data file change", "error", err)
				}
			})
			if err != nil {
				b.logger.Error("watch data file", "error", err)
			}
		})
	}
	return nil
}

var errNotMessageable = errors.New("channel cannot hold messages")

func (b *Bot) resolveChannel(ctx context.Context) error {
	return retry.Do(
		func() error {
			ch, err := b.dg.Channel(b.boardChan, discordgo.WithContext(ctx))
			if err != nil {
				return err
			}
			if ch.Type == discordgo.ChannelTypeGuildCategory {
				return retry.Unrecoverable(errNotMessageable)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			b.logger.Warn("fetch leaderboard channel", "attempt", n+1, "error", err)
		}),
	)
}

// Wait blocks until background work started by the bot has finished.
func (b *Bot) Wait() {
	b.wg.Wait()
	b.pub.Wait()
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	b.HandleInteraction(b.baseContext(), ic.Interaction)
}

// HandleInteraction dispatches one interaction.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case "ranks":
			b.ranks(ctx, i)
		case "place":
			b.place(ctx, i, optionMap(data.Options))
		case "mh":
			b.matchHistory(ctx, i, optionMap(data.Options))
		case "score":
			b.score(ctx, i, optionMap(data.Options))
		case "mng":
			b.admin(ctx, i, data.Options)
		default:
			b.respond(i, "Unknown command")
		}
	case discordgo.InteractionMessageComponent:
		b.turnPage(ctx, i)
	}
}

func (b *Bot) respond(i *discordgo.Interaction, content string) {
	b.reply(i, &discordgo.InteractionResponseData{Content: content})
}

func (b *Bot) respondEmbed(i *discordgo.Interaction, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	b.reply(i, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
}

func (b *Bot) reply(i *discordgo.Interaction, data *discordgo.InteractionResponseData) {
	err := b.dg.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Error("respond to interaction", "interaction", i.ID, "error", err)
	}
}

// fail logs err and gives the user a generic answer.
func (b *Bot) fail(i *discordgo.Interaction, command string, err error) {
	b.logger.Error("command failed", "command", command, "error", err)
	b.respond(i, "ERROR")
}

func userID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (o options) text(name string) string {
	if v, ok := o[name]; ok {
		return v.StringValue()
	}
	return ""
}

func (o options) number(name string) int {
	if v, ok := o[name]; ok {
		return int(v.IntValue())
	}
	return 0
}

func (o options) flag(name string) bool {
	if v, ok := o[name]; ok {
		return v.BoolValue()
	}
	return false
}
