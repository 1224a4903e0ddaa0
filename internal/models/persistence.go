package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDir is where save data lives when no directory is configured.
const DefaultSaveDir = ".saves"

const leaderboardFile = "leaderboard.yaml"

// FileStore is a ScoreBoard persisted as a YAML file inside a save directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
	max int
	now func() time.Time
}

// NewFileStore returns a store writing to dir/leaderboard.yaml.
func NewFileStore(dir string, max int) *FileStore {
	if dir == "" {
		dir = DefaultSaveDir
	}
	return &FileStore{dir: dir, max: max, now: time.Now}
}

// Path is the location of the leaderboard file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, leaderboardFile)
}

func (s *FileStore) Submit(ctx context.Context, name string, score, level int) (ScoreEntry, error) {
	if err := ctx.Err(); err != nil {
		return ScoreEntry{}, err
	}
	entry, err := NewScoreEntry(name, score, level, s.now())
	if err != nil {
		return ScoreEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := s.load()
	if err != nil {
		return ScoreEntry{}, err
	}
	board.Add(entry)
	if err := s.save(board); err != nil {
		return ScoreEntry{}, err
	}
	return entry, nil
}

func (s *FileStore) Top(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := s.load()
	if err != nil {
		return nil, err
	}
	return board.Top(limit), nil
}

func (s *FileStore) IsHighScore(ctx context.Context, score int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := s.load()
	if err != nil {
		return false, err
	}
	return board.IsHighScore(score), nil
}

func (s *FileStore) load() (*Leaderboard, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return NewLeaderboard(s.max), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	board := NewLeaderboard(s.max)
	if err := yaml.Unmarshal(data, board); err != nil {
		return nil, fmt.Errorf("parse leaderboard %s: %w", s.Path(), err)
	}
	if s.max > 0 {
		board.MaxEntries = s.max
	}
	if max := board.limit(); len(board.Entries) > max {
		board.Entries = board.Entries[:max]
	}
	return board, nil
}

func (s *FileStore) save(board *Leaderboard) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(board)
	if err != nil {
		return err
	}

	// Write-then-rename keeps the previous board intact on failure.
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path())
}
