package roster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// Watch calls fn whenever the data file is edited outside this store. It
// watches the parent directory so atomic replaces are seen, and blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(*Leaderboard)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("data file watcher error", "error", err)
		case <-timer.C:
			lb, changed, err := s.reloadIfChanged(ctx)
			if err != nil {
				s.logger.Error("reload leaderboard", "error", err)
				continue
			}
			if changed {
				s.logger.Info("leaderboard changed on disk", "path", s.path)
				fn(lb)
			}
		}
	}
}
