package board

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"leaderboard-bot/internal/chunk"
	"leaderboard-bot/internal/roster"
)

// MessageLimit is the most characters Discord accepts in one message.
const MessageLimit = 2000

// DefaultIDFile is where published message IDs are remembered between runs.
const DefaultIDFile = "./persist/leaderboard_msg_id"

const deleteConcurrency = 4

// Messenger is the part of the Discord session the publisher needs.
type Messenger interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	Messenger Messenger
	ChannelID string
	IDFile    string
	Logger    *slog.Logger
}

// Publisher keeps the leaderboard messages in one channel in sync with the
// roster, editing in place where it can.
type Publisher struct {
	msgr      Messenger
	channelID string
	idFile    string
	logger    *slog.Logger

	mu       sync.Mutex
	messages []string

	fileMu sync.Mutex
	wg     sync.WaitGroup
}

// NewPublisher creates a Publisher.
func NewPublisher(cfg PublisherConfig) *Publisher {
	if cfg.IDFile == "" {
		cfg.IDFile = DefaultIDFile
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Publisher{
		msgr:      cfg.Messenger,
		channelID: cfg.ChannelID,
		idFile:    cfg.IDFile,
		logger:    cfg.Logger,
	}
}

// Render returns the fenced message bodies for the top of lb.
func Render(lb *roster.Leaderboard) []string {
	table := Top(lb, lb.MaxItems)
	return chunk.Fence(chunk.PackLines(table, MessageLimit-chunk.FenceOverhead))
}

// Messages returns the IDs of the messages currently showing the board.
func (p *Publisher) Messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.messages...)
}

// Publish renders lb into the channel. Existing messages are edited, missing
// ones are sent and surplus ones are deleted in the background. With
// forceRewrite the known messages are forgotten and a fresh set is sent.
func (p *Publisher) Publish(ctx context.Context, lb *roster.Leaderboard, forceRewrite bool) error {
	if p.channelID == "" {
		return nil
	}
	texts := Render(lb)

	p.mu.Lock()
	defer p.mu.Unlock()

	if forceRewrite {
		p.messages = nil
	}
	old := p.messages
	kept := make([]string, 0, len(texts))
	var stale []string
	rewrite := false

	for i, text := range texts {
		if i < len(old) {
			_, err := p.msgr.ChannelMessageEdit(p.channelID, old[i], text, discordgo.WithContext(ctx))
			if err == nil {
				kept = append(kept, old[i])
				continue
			}
			p.logger.Warn("edit leaderboard message, sending a new one", "message_id", old[i], "error", err)
		}
		msg, err := p.msgr.ChannelMessageSend(p.channelID, text, discordgo.WithContext(ctx))
		if err != nil {
			if i < len(old) {
				kept = append(kept, old[i:]...)
			}
			p.deleteAsync(stale)
			p.messages = kept
			p.saveIDsAsync()
			return fmt.Errorf("send leaderboard message: %w", err)
		}
		if i < len(old) {
			stale = append(stale, old[i])
		}
		kept = append(kept, msg.ID)
		rewrite = true
	}

	if len(old) > len(texts) {
		stale = append(stale, old[len(texts):]...)
	}
	if len(stale) > 0 {
		p.deleteAsync(stale)
		rewrite = true
	}
	p.messages = kept
	if rewrite {
		p.saveIDsAsync()
	}
	p.logger.Debug("leaderboard published", "messages", len(kept), "players", len(lb.Players))
	return nil
}

// deleteAsync removes messages the board no longer uses. Messages that are
// already gone count as deleted.
func (p *Publisher) deleteAsync(ids []string) {
	if len(ids) == 0 {
		return
	}
	ids = append([]string(nil), ids...)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for _, id := range ids {
			if err := p.msgr.ChannelMessageDelete(p.channelID, id); err != nil && !isNotFound(err) {
				p.logger.Warn("delete stale leaderboard message", "message_id", id, "error", err)
			}
		}
	}()
}

func isNotFound(err error) bool {
	var rest *discordgo.RESTError
	return errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound
}

func (p *Publisher) saveIDsAsync() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.saveIDs(); err != nil {
			p.logger.Error("write leaderboard message ids", "path", p.idFile, "error", err)
		}
	}()
}

// saveIDs writes the latest message IDs, whichever goroutine gets here last.
func (p *Publisher) saveIDs() error {
	p.fileMu.Lock()
	defer p.fileMu.Unlock()

	ids := p.Messages()
	if err := os.MkdirAll(filepath.Dir(p.idFile), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.idFile, []byte(strings.Join(ids, "\n")), 0o644)
}

// Wait blocks until background deletes and writes have finished.
func (p *Publisher) Wait() {
	p.wg.Wait()
}

// DeletePrevious removes the messages a previous run left in the channel,
// as listed in the ID file. Failures are logged and skipped.
func (p *Publisher) DeletePrevious(ctx context.Context) error {
	if p.channelID == "" {
		return nil
	}
	ids, err := readIDs(p.idFile)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := p.msgr.ChannelMessageDelete(p.channelID, id, discordgo.WithContext(gctx))
			if err != nil && !isNotFound(err) {
				p.logger.Warn("delete previous leaderboard message", "message_id", id, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("delete previous messages: %w", err)
	}
	p.logger.Info("previous leaderboard messages removed", "count", len(ids))
	return nil
}

// readIDs lists the decimal message IDs in path, skipping anything else.
func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open message id file: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read message id file: %w", err)
	}
	return ids, nil
}
