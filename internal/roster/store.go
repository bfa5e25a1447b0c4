package roster

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPath is where the leaderboard document lives unless configured.
const DefaultPath = "./persist/leaderboard.json"

// Store reads and writes the leaderboard JSON file.
type Store struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	digest [sha256.Size]byte
}

// NewStore creates a store for path. An empty path uses DefaultPath.
func NewStore(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the data file location.
func (s *Store) Path() string { return s.path }

// Load reads the leaderboard. A missing file yields an empty leaderboard.
func (s *Store) Load(ctx context.Context) (*Leaderboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*Leaderboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	lb, err := decode(data)
	if err != nil {
		return nil, err
	}
	s.digest = sha256.Sum256(data)
	return lb, nil
}

func decode(data []byte) (*Leaderboard, error) {
	lb := New()
	if err := json.Unmarshal(data, lb); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	if lb.RankConfig == nil {
		lb.RankConfig = map[string]string{}
	}
	if lb.Players == nil {
		lb.Players = []*Player{}
	}
	for i, p := range lb.Players {
		if p == nil {
			lb.Players[i] = &Player{}
			p = lb.Players[i]
		}
		if p.Matches == nil {
			p.Matches = []Match{}
		}
	}
	return lb, nil
}

// Save writes lb, replacing the file atomically.
func (s *Store) Save(ctx context.Context, lb *Leaderboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, lb)
}

func (s *Store) save(ctx context.Context, lb *Leaderboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace leaderboard: %w", err)
	}

	s.digest = sha256.Sum256(data)
	s.logger.Debug("leaderboard saved", "path", s.path, "players", len(lb.Players))
	return nil
}

// Update loads the leaderboard, applies fn and saves the result. Nothing is
// written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(*Leaderboard) error) (*Leaderboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lb, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(lb); err != nil {
		return nil, err
	}
	if err := s.save(ctx, lb); err != nil {
		return nil, err
	}
	return lb, nil
}

// Size returns the data file size in bytes, 0 when it does not exist.
func (s *Store) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat leaderboard: %w", err)
	}
	return info.Size(), nil
}

// reloadIfChanged re-reads the file and returns the leaderboard only when
// its content differs from what this store last read or wrote.
func (s *Store) reloadIfChanged(ctx context.Context) (*Leaderboard, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read leaderboard: %w", err)
	}
	sum := sha256.Sum256(data)
	if sum == s.digest {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	lb, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	s.digest = sum
	return lb, true, nil
}
