package models

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestSequenceEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Sequence
		want bool
	}{
		{"both empty", nil, Sequence{}, true},
		{"same", Sequence{2, 0, 1, 0}, Sequence{2, 0, 1, 0}, true},
		{"last differs", Sequence{0, 1, 0, 2}, Sequence{0, 1, 0, 3}, false},
		{"shorter", Sequence{1}, Sequence{1, 2, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Expected %v.Equal(%v) = %v, got %v", tt.a, tt.b, tt.want, got)
			}
		})
	}
}

func TestSequenceCloneIsIndependent(t *testing.T) {
	orig := Sequence{1, 2, 3}
	clone := orig.Clone()
	clone[0] = 3
	if orig[0] != 1 {
		t.Errorf("Expected original to be untouched, got %v", orig)
	}
}

func TestSequenceDistinct(t *testing.T) {
	got := Sequence{3, 1, 3, 0, 1}.Distinct()
	want := []Symbol{0, 1, 3}
	if !Sequence(got).Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestLeaderboardRanksDescendingWithStableTies(t *testing.T) {
	board := NewLeaderboard(3)
	board.Add(ScoreEntry{ID: "a", Score: 100})
	board.Add(ScoreEntry{ID: "b", Score: 300})
	board.Add(ScoreEntry{ID: "c", Score: 100})

	ids := ""
	for _, e := range board.Top(0) {
		ids += e.ID
	}
	if ids != "bac" {
		t.Errorf("Expected order bac, got %s", ids)
	}

	if kept := board.Add(ScoreEntry{ID: "d", Score: 50}); kept {
		t.Errorf("Expected low score to fall off a full board")
	}
	if kept := board.Add(ScoreEntry{ID: "e", Score: 200}); !kept {
		t.Errorf("Expected 200 to make the board")
	}
	if len(board.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(board.Entries))
	}
	if last := board.Entries[2]; last.ID != "a" {
		t.Errorf("Expected older tie to outrank newer tie, last entry is %s", last.ID)
	}
}

func TestLeaderboardIsHighScore(t *testing.T) {
	board := NewLeaderboard(2)
	if !board.IsHighScore(0) {
		t.Errorf("Expected any score to qualify on an empty board")
	}
	board.Add(ScoreEntry{ID: "a", Score: 500})
	board.Add(ScoreEntry{ID: "b", Score: 400})
	if board.IsHighScore(400) {
		t.Errorf("Expected a tie with the last entry not to qualify")
	}
	if !board.IsHighScore(401) {
		t.Errorf("Expected 401 to qualify")
	}
}

func TestNewScoreEntryValidation(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entry, err := NewScoreEntry("  ", 1200, 5, now)
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	if entry.PlayerName != DefaultPlayerName {
		t.Errorf("Expected default name, got %q", entry.PlayerName)
	}
	if entry.ID == "" {
		t.Errorf("Expected an ID to be assigned")
	}
	if !entry.Date.Equal(now) {
		t.Errorf("Expected date %v, got %v", now, entry.Date)
	}

	if _, err := NewScoreEntry("x", -1, 1, now); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry for negative score, got %v", err)
	}
	if _, err := NewScoreEntry("x", 10, 0, now); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry for level 0, got %v", err)
	}
}

func TestFileStoreSubmitAndReload(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "saves")
	store := NewFileStore(dir, 2)

	for i, score := range []int{100, 300, 200} {
		if _, err := store.Submit(ctx, "p", score, i+1); err != nil {
			t.Fatalf("Failed to submit %d: %v", score, err)
		}
	}

	reopened := NewFileStore(dir, 2)
	top, err := reopened.Top(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to read board: %v", err)
	}
	if len(top) != 2 || top[0].Score != 300 || top[1].Score != 200 {
		t.Fatalf("Expected [300 200], got %+v", top)
	}

	data, err := os.ReadFile(reopened.Path())
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	var onDisk Leaderboard
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}
	if len(onDisk.Entries) != 2 {
		t.Errorf("Expected 2 entries on disk, got %d", len(onDisk.Entries))
	}

	ok, err := reopened.IsHighScore(ctx, 150)
	if err != nil {
		t.Fatalf("Failed to check score: %v", err)
	}
	if ok {
		t.Errorf("Expected 150 not to qualify against [300 200]")
	}
}

func TestFileStoreReopenWithSmallerCap(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	wide := NewFileStore(dir, 5)
	for i, score := range []int{300, 200, 100} {
		if _, err := wide.Submit(ctx, "p", score, i+1); err != nil {
			t.Fatalf("Failed to submit %d: %v", score, err)
		}
	}

	narrow := NewFileStore(dir, 2)
	top, err := narrow.Top(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to read board: %v", err)
	}
	if len(top) != 2 || top[0].Score != 300 || top[1].Score != 200 {
		t.Fatalf("Expected [300 200], got %+v", top)
	}

	ok, err := narrow.IsHighScore(ctx, 150)
	if err != nil {
		t.Fatalf("Failed to check score: %v", err)
	}
	if ok {
		t.Errorf("Expected 150 not to qualify against [300 200]")
	}
	ok, err = narrow.IsHighScore(ctx, 250)
	if err != nil {
		t.Fatalf("Failed to check score: %v", err)
	}
	if !ok {
		t.Errorf("Expected 250 to qualify against [300 200]")
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir(), 0)
	top, err := store.Top(context.Background(), 5)
	if err != nil {
		t.Fatalf("Failed to read empty board: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("Expected empty board, got %d entries", len(top))
	}
}
