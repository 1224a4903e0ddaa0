package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/models"
)

func newTestModel(t *testing.T, tuning engine.Tuning) (model, *models.FileStore) {
	t.Helper()
	eng, err := engine.NewEngine(tuning, engine.WithRand(rand.New(rand.NewPCG(7, 7))))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	store := models.NewFileStore(t.TempDir(), 3)
	return NewModel(eng, store, "tester", nil), store
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// tickUntil feeds ticks until cond holds.
func tickUntil(t *testing.T, m model, cond func(model) bool) model {
	t.Helper()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2000; i++ {
		if cond(m) {
			return m
		}
		m, _ = update(t, m, tickMsg(now))
		now = now.Add(tickInterval)
	}
	t.Fatal("Condition never met")
	return m
}

func TestTitleScreen(t *testing.T) {
	m, _ := newTestModel(t, engine.DefaultTuning())
	view := m.View()
	if !strings.Contains(view, "MEMORY BOMB") || !strings.Contains(view, "Press enter to start") {
		t.Errorf("Unexpected title view:\n%s", view)
	}
	if m.engine.Started() {
		t.Error("Expected the game to wait for enter")
	}
}

func TestPlayCorrectRound(t *testing.T) {
	m, _ := newTestModel(t, engine.DefaultTuning())
	m, _ = update(t, m, key("enter"))
	if !m.engine.Started() {
		t.Fatal("Expected enter to start a game")
	}

	m = tickUntil(t, m, func(m model) bool { return m.display.awaiting })
	if m.display.rule == "" || m.display.shown != m.display.length {
		t.Fatalf("Expected the full sequence shown with a rule, got %+v", m.display)
	}

	for _, sym := range m.engine.Round().Expected {
		m, _ = update(t, m, key(string(rune('1'+sym))))
	}
	if m.display.score != 100 || m.display.status != "Correct!" {
		t.Errorf("Expected a scored round, got score=%d status=%q", m.display.score, m.display.status)
	}
	if !strings.Contains(m.View(), "Score 100") {
		t.Errorf("Expected score in view:\n%s", m.View())
	}
}

func TestLetterKeysPress(t *testing.T) {
	m, _ := newTestModel(t, engine.DefaultTuning())
	m, _ = update(t, m, key("enter"))
	m = tickUntil(t, m, func(m model) bool { return m.display.awaiting })

	m, _ = update(t, m, key("y"))
	if len(m.display.input) != 1 || m.display.input[0] != 3 {
		t.Errorf("Expected y to press symbol 3, got %v", m.display.input)
	}
}

func TestPauseKey(t *testing.T) {
	m, _ := newTestModel(t, engine.DefaultTuning())
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("p"))
	if !m.engine.Paused() || !m.display.paused {
		t.Fatal("Expected p to pause")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("Expected paused banner")
	}
	m, _ = update(t, m, key("p"))
	if m.engine.Paused() {
		t.Fatal("Expected p to resume")
	}
}

func TestGameOverHighScoreFlow(t *testing.T) {
	tuning := engine.DefaultTuning()
	tuning.InitialResource = 0.5
	m, store := newTestModel(t, tuning)
	m, _ = update(t, m, key("enter"))

	m = tickUntil(t, m, func(m model) bool { return m.display.over != nil })
	if !m.checked {
		t.Fatal("Expected a high score check after game over")
	}

	m, _ = update(t, m, m.checkHighScore(m.display.over.Score)())
	if m.state != stateEnterName {
		t.Fatalf("Expected name entry, got state %d", m.state)
	}
	if !strings.Contains(m.View(), "NEW HIGH SCORE") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}

	m, cmd := update(t, m, key("enter"))
	m, cmd = update(t, m, cmd())
	m, _ = update(t, m, cmd())
	if m.state != stateScores {
		t.Fatalf("Expected leaderboard, got state %d", m.state)
	}
	if len(m.leaderboard) != 1 || m.leaderboard[0].PlayerName != "tester" {
		t.Fatalf("Unexpected leaderboard: %+v", m.leaderboard)
	}
	if !strings.Contains(m.View(), "LEADERBOARD") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}

	if _, err := store.Top(t.Context(), 0); err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}

	m, _ = update(t, m, key("n"))
	if m.state != statePlaying || m.display.over != nil || m.engine.GameOver() {
		t.Error("Expected n to start a new game from the leaderboard")
	}
}

func TestLeaderboardPausesRunningGame(t *testing.T) {
	m, _ := newTestModel(t, engine.DefaultTuning())
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("l"))
	if !m.engine.Paused() {
		t.Fatal("Expected the leaderboard to pause the game")
	}
	m, _ = update(t, m, cmd())
	if m.state != stateScores || !strings.Contains(m.View(), "no scores yet") {
		t.Fatalf("Expected an empty leaderboard, got state %d", m.state)
	}

	m, _ = update(t, m, key("esc"))
	if m.state != statePlaying || m.engine.Paused() {
		t.Error("Expected esc to resume the game")
	}
}

func TestDisplayTracksEvents(t *testing.T) {
	d := newDisplay()
	d.HandleEvent(engine.Event{Type: engine.EventGameStarted, Payload: engine.GameStartedPayload{GameID: "g"}})
	d.HandleEvent(engine.Event{Type: engine.EventSymbolRevealed, Payload: engine.SymbolPayload{Index: 1, Symbol: 2}})
	if !d.litOn || d.lit != 2 || d.shown != 2 {
		t.Errorf("Expected symbol 2 lit, got %+v", d)
	}
	d.HandleEvent(engine.Event{Type: engine.EventSymbolConcealed, Payload: engine.SymbolPayload{Index: 1, Symbol: 2}})
	if d.litOn {
		t.Error("Expected symbol concealed")
	}
	d.HandleEvent(engine.Event{Type: engine.EventRoundResolved, Payload: engine.RoundResolvedPayload{TimedOut: true, Expected: models.Sequence{0, 1}}})
	if d.status != "Time's up! It was green red" {
		t.Errorf("Unexpected status %q", d.status)
	}
	d.HandleEvent(engine.Event{Type: engine.EventDangerChanged, Payload: true})
	d.HandleEvent(engine.Event{Type: engine.EventGameOver, Payload: engine.GameOverPayload{Score: 300, Level: 4}})
	if d.over == nil || d.over.Score != 300 || !d.danger {
		t.Errorf("Expected game over recorded, got %+v", d)
	}
}

func TestRatio(t *testing.T) {
	for _, tt := range []struct{ v, max, want float64 }{
		{5, 10, 0.5}, {12, 10, 1}, {-1, 10, 0}, {3, 0, 0},
	} {
		if got := ratio(tt.v, tt.max); got != tt.want {
			t.Errorf("ratio(%v, %v) = %v, want %v", tt.v, tt.max, got, tt.want)
		}
	}
}
