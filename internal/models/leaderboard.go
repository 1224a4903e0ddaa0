package models

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxScores is the number of entries a leaderboard keeps.
	MaxScores = 20

	// DefaultPlayerName is recorded when a score is submitted without a name.
	DefaultPlayerName = "Player"
)

// ErrInvalidEntry is returned when a score submission carries impossible values.
var ErrInvalidEntry = errors.New("invalid score entry")

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	ID         string    `yaml:"id" json:"id"`
	PlayerName string    `yaml:"player_name" json:"player_name"`
	Score      int       `yaml:"score" json:"score"`
	Level      int       `yaml:"level" json:"level"`
	Date       time.Time `yaml:"date" json:"date"`
}

// NewScoreEntry validates a submission and stamps it with a fresh ID and date.
func NewScoreEntry(name string, score, level int, now time.Time) (ScoreEntry, error) {
	if score < 0 {
		return ScoreEntry{}, fmt.Errorf("%w: score %d is negative", ErrInvalidEntry, score)
	}
	if level < 1 {
		return ScoreEntry{}, fmt.Errorf("%w: level %d is below 1", ErrInvalidEntry, level)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	return ScoreEntry{
		ID:         uuid.NewString(),
		PlayerName: name,
		Score:      score,
		Level:      level,
		Date:       now.UTC(),
	}, nil
}

// ScoreBoard is the persistence collaborator that records finished games.
type ScoreBoard interface {
	Submit(ctx context.Context, name string, score, level int) (ScoreEntry, error)
	Top(ctx context.Context, limit int) ([]ScoreEntry, error)
	IsHighScore(ctx context.Context, score int) (bool, error)
}

// Leaderboard keeps entries ranked by score, highest first, capped at MaxEntries.
// Entries with equal scores keep their submission order.
type Leaderboard struct {
	MaxEntries int          `yaml:"max_entries"`
	Entries    []ScoreEntry `yaml:"entries"`
}

// NewLeaderboard returns an empty leaderboard holding at most max entries.
func NewLeaderboard(max int) *Leaderboard {
	if max <= 0 {
		max = MaxScores
	}
	return &Leaderboard{MaxEntries: max}
}

// Add ranks entry into the board and drops whatever falls off the end.
// It reports whether the entry survived the cut.
func (l *Leaderboard) Add(entry ScoreEntry) bool {
	l.Entries = append(l.Entries, entry)
	slices.SortStableFunc(l.Entries, func(a, b ScoreEntry) int {
		return b.Score - a.Score
	})
	if max := l.limit(); len(l.Entries) > max {
		l.Entries = l.Entries[:max]
	}
	return slices.ContainsFunc(l.Entries, func(e ScoreEntry) bool { return e.ID == entry.ID })
}

// Top returns up to limit entries; limit <= 0 returns all of them.
func (l *Leaderboard) Top(limit int) []ScoreEntry {
	n := len(l.Entries)
	if limit > 0 && limit < n {
		n = limit
	}
	return slices.Clone(l.Entries[:n])
}

// IsHighScore reports whether score would earn a place on the board.
func (l *Leaderboard) IsHighScore(score int) bool {
	if len(l.Entries) < l.limit() {
		return true
	}
	return score > l.Entries[len(l.Entries)-1].Score
}

func (l *Leaderboard) limit() int {
	if l.MaxEntries <= 0 {
		return MaxScores
	}
	return l.MaxEntries
}
