// Package sqlite provides a SQLite-backed leaderboard.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tatianab/memory-bomb/internal/models"
	_ "modernc.org/sqlite"
)

// DefaultFile is the database file name inside the save directory.
const DefaultFile = "leaderboard.db"

const schema = `CREATE TABLE IF NOT EXISTS scores (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	player_name TEXT NOT NULL,
	score       INTEGER NOT NULL,
	level       INTEGER NOT NULL,
	date        INTEGER NOT NULL
)`

// Store is a models.ScoreBoard persisted in SQLite. Rows beyond the
// leaderboard size are pruned on every submission.
type Store struct {
	sqlDB *sql.DB
	max   int
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the leaderboard database at path, creating the schema if needed.
func Open(path string, max int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if max <= 0 {
		max = models.MaxScores
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, max: max, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Submit records a score and trims the table to the leaderboard size.
func (s *Store) Submit(ctx context.Context, name string, score, level int) (models.ScoreEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.ScoreEntry{}, err
	}
	if s == nil || s.sqlDB == nil {
		return models.ScoreEntry{}, fmt.Errorf("storage is not configured")
	}
	entry, err := models.NewScoreEntry(name, score, level, s.now())
	if err != nil {
		return models.ScoreEntry{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return models.ScoreEntry{}, fmt.Errorf("begin submit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scores (id, player_name, score, level, date) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.PlayerName, entry.Score, entry.Level, toMillis(entry.Date),
	); err != nil {
		return models.ScoreEntry{}, fmt.Errorf("insert score: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scores WHERE seq NOT IN (
		   SELECT seq FROM scores ORDER BY score DESC, seq ASC LIMIT ?
		 )`,
		s.max,
	); err != nil {
		return models.ScoreEntry{}, fmt.Errorf("prune scores: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.ScoreEntry{}, fmt.Errorf("commit submit: %w", err)
	}
	return entry, nil
}

// Top returns up to limit entries, best first; limit <= 0 returns all of them.
func (s *Store) Top(ctx context.Context, limit int) ([]models.ScoreEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 || limit > s.max {
		limit = s.max
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, player_name, score, level, date
		   FROM scores
		  ORDER BY score DESC, seq ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var entries []models.ScoreEntry
	for rows.Next() {
		var (
			entry models.ScoreEntry
			date  int64
		)
		if err := rows.Scan(&entry.ID, &entry.PlayerName, &entry.Score, &entry.Level, &date); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		entry.Date = fromMillis(date)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return entries, nil
}

// IsHighScore reports whether score would earn a place on the board.
func (s *Store) IsHighScore(ctx context.Context, score int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&count); err != nil {
		return false, fmt.Errorf("count scores: %w", err)
	}
	if count < s.max {
		return true, nil
	}

	var lowest int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT score FROM scores ORDER BY score DESC, seq ASC LIMIT 1 OFFSET ?`,
		s.max-1,
	).Scan(&lowest); err != nil {
		return false, fmt.Errorf("lowest score: %w", err)
	}
	return score > lowest, nil
}

var _ models.ScoreBoard = (*Store)(nil)
