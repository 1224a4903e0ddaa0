// Package storage opens the configured leaderboard backend.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tatianab/memory-bomb/internal/config"
	"github.com/tatianab/memory-bomb/internal/models"
	"github.com/tatianab/memory-bomb/internal/storage/sqlite"
)

// Open returns the leaderboard selected by cfg and a function releasing it.
func Open(cfg *config.Config) (models.ScoreBoard, func() error, error) {
	switch cfg.Leaderboard {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create save dir: %w", err)
		}
		store, err := sqlite.Open(filepath.Join(cfg.SaveDir, sqlite.DefaultFile), models.MaxScores)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendYAML, "":
		return models.NewFileStore(cfg.SaveDir, models.MaxScores), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown leaderboard backend %q", cfg.Leaderboard)
}
