package board

import (
	"context"
	"time"

	"leaderboard-bot/internal/roster"
)

// Loader supplies the current leaderboard.
type Loader interface {
	Load(ctx context.Context) (*roster.Leaderboard, error)
}

// Refresh republishes the board every interval until ctx is done. A
// non-positive interval disables it.
func (p *Publisher) Refresh(ctx context.Context, every time.Duration, src Loader) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lb, err := src.Load(ctx)
			if err != nil {
				p.logger.Error("load leaderboard for refresh", "error", err)
				continue
			}
			if err := p.Publish(ctx, lb, false); err != nil {
				p.logger.Error("refresh leaderboard", "error", err)
			}
		}
	}
}
