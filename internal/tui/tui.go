package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateEnterName
	stateScores
)

const (
	tickInterval = 50 * time.Millisecond
	barWidth     = 40
)

type model struct {
	state      sessionState
	engine     *engine.Engine
	scores     models.ScoreBoard
	display    *display
	textInput  textinput.Model
	resource   progress.Model
	timer      progress.Model
	printer    *message.Printer
	playerName string
	logger     *log.Logger

	leaderboard  []models.ScoreEntry
	lastTick     time.Time
	checked      bool
	resumeOnExit bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			PaddingLeft(2)

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1)

	padStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	entryStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))
)

var padColors = [...]lipgloss.Color{"#2ECC71", "#E74C3C", "#3498DB", "#F1C40F"}

// Letter shortcuts for the four standard pads.
var padKeys = map[string]models.Symbol{"g": 0, "r": 1, "b": 2, "y": 3}

func NewModel(eng *engine.Engine, scores models.ScoreBoard, playerName string, logger *log.Logger) model {
	ti := textinput.New()
	ti.Placeholder = models.DefaultPlayerName
	ti.CharLimit = 24
	ti.Width = 24

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d := newDisplay()
	eng.Subscribe(d)

	return model{
		state:      statePlaying,
		engine:     eng,
		scores:     scores,
		display:    d,
		textInput:  ti,
		resource:   progress.New(progress.WithGradient("#FF5555", "#2ECC71"), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		timer:      progress.New(progress.WithSolidFill("#5F5F87"), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		printer:    message.NewPrinter(language.English),
		playerName: playerName,
		logger:     logger,
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

type tickMsg time.Time

type highScoreMsg struct {
	qualifies bool
	err       error
}

type submittedMsg struct {
	err error
}

type scoresMsg struct {
	entries []models.ScoreEntry
	err     error
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.engine.AdvanceTime(now.Sub(m.lastTick))
		}
		m.lastTick = now
		if over := m.display.over; over != nil && !m.checked {
			m.checked = true
			return m, tea.Batch(tick(), m.checkHighScore(over.Score))
		}
		return m, tick()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case stateEnterName:
			return m.updateEnterName(msg)
		case stateScores:
			return m.updateScores(msg)
		}
		return m.updatePlaying(msg)

	case highScoreMsg:
		if msg.err != nil {
			m.logger.Printf("high score check: %v", msg.err)
			m.display.status = "Leaderboard unavailable"
			return m, nil
		}
		if !msg.qualifies || m.display.over == nil {
			return m, nil
		}
		m.state = stateEnterName
		m.textInput.SetValue(m.playerName)
		m.textInput.CursorEnd()
		return m, m.textInput.Focus()

	case submittedMsg:
		if msg.err != nil {
			m.logger.Printf("submit score: %v", msg.err)
			m.display.status = "Could not save score"
			m.state = statePlaying
			return m, nil
		}
		return m, m.loadScores()

	case scoresMsg:
		if msg.err != nil {
			m.logger.Printf("load scores: %v", msg.err)
			m.display.status = "Leaderboard unavailable"
			m.state = statePlaying
			return m, nil
		}
		m.leaderboard = msg.entries
		m.state = stateScores
		return m, nil
	}

	if m.state == stateEnterName {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "enter":
		if !m.engine.Started() || m.engine.GameOver() {
			m.checked = false
			m.engine.StartNewGame()
		}
		return m, nil
	case "n":
		m.checked = false
		m.engine.StartNewGame()
		return m, nil
	case "p", "esc", " ":
		m.engine.SetPaused(!m.engine.Paused())
		return m, nil
	case "l":
		if m.engine.Started() && !m.engine.GameOver() && !m.engine.Paused() {
			m.engine.SetPaused(true)
			m.resumeOnExit = true
		}
		return m, m.loadScores()
	}

	if sym, ok := padKeys[key]; ok {
		m.engine.ButtonPressed(sym)
		return m, nil
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.engine.ButtonPressed(models.Symbol(key[0] - '1'))
	}
	return m, nil
}

func (m model) updateEnterName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.textInput.Value())
		if name != "" {
			m.playerName = name
		}
		m.textInput.Blur()
		over := m.display.over
		if over == nil {
			m.state = statePlaying
			return m, nil
		}
		return m, m.submit(m.playerName, over.Score, over.Level)
	case tea.KeyEsc:
		m.textInput.Blur()
		m.state = statePlaying
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) updateScores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n":
		m.state = statePlaying
		m.resumeOnExit = false
		m.checked = false
		m.engine.StartNewGame()
	case "esc", "enter", "l":
		m.state = statePlaying
		if m.resumeOnExit {
			m.resumeOnExit = false
			m.engine.SetPaused(false)
		}
	}
	return m, nil
}

func (m model) checkHighScore(score int) tea.Cmd {
	return func() tea.Msg {
		ok, err := m.scores.IsHighScore(context.Background(), score)
		return highScoreMsg{qualifies: ok, err: err}
	}
}

func (m model) submit(name string, score, level int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.scores.Submit(context.Background(), name, score, level)
		return submittedMsg{err: err}
	}
}

func (m model) loadScores() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.scores.Top(context.Background(), models.MaxScores)
		return scoresMsg{entries: entries, err: err}
	}
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateScores:
		s = m.renderScores()
	case stateEnterName:
		s = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("NEW HIGH SCORE"),
			"",
			fmt.Sprintf("Score %s at level %d", m.printer.Sprintf("%d", m.display.over.Score), m.display.over.Level),
			"",
			"Enter your name:",
			m.textInput.View(),
			"",
			helpStyle.Render("enter: save  esc: skip"),
		)
	default:
		s = m.renderGame()
	}

	return "\n" + s + "\n"
}

func (m model) renderGame() string {
	d := m.display

	header := titleStyle.Render("MEMORY BOMB") +
		statStyle.Render(fmt.Sprintf("Level %d", d.level)) +
		statStyle.Render("Score "+m.printer.Sprintf("%d", d.score))

	if !d.started {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Memorize the sequence, then answer it under this round's rule.",
			"Every round costs time; the bomb goes off when it runs out.",
			"",
			statusStyle.Render(d.status),
			"",
			helpStyle.Render("enter: start  l: leaderboard  q: quit"),
		)
	}

	fuse := m.resource.ViewAs(ratio(d.resource, d.resourceCap)) + fmt.Sprintf(" %4.1fs", d.resource)
	if d.danger {
		fuse += "  " + dangerStyle.Render("DANGER")
	}

	lines := []string{
		header,
		"",
		"Fuse  " + fuse,
		"",
		ruleStyle.Render("Rule: " + d.rule),
		"",
		m.renderPads(),
		"",
		m.renderProgress(),
	}

	if d.awaiting {
		lines = append(lines, "Time  "+m.timer.ViewAs(ratio(d.remaining.Seconds(), d.limit.Seconds()))+fmt.Sprintf(" %4.1fs", d.remaining.Seconds()))
	} else {
		lines = append(lines, "")
	}

	status := d.status
	if d.paused {
		status = "PAUSED"
	}
	if d.over != nil {
		status = fmt.Sprintf("%s Final score %s at level %d.", d.status, m.printer.Sprintf("%d", d.over.Score), d.over.Level)
	}
	lines = append(lines, "", statusStyle.Render(status), "")

	help := "1-4 or g/r/b/y: press  p: pause  n: new game  l: leaderboard  q: quit"
	if d.over != nil {
		help = "enter: play again  l: leaderboard  q: quit"
	}
	lines = append(lines, helpStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m model) renderPads() string {
	d := m.display
	alphabet := m.engine.Tuning().AlphabetSize
	pads := make([]string, 0, alphabet)
	for i := 0; i < alphabet; i++ {
		sym := models.Symbol(i)
		color := lipgloss.Color("#888888")
		if i < len(padColors) {
			color = padColors[i]
		}
		style := padStyle.BorderForeground(color).Foreground(color)
		if d.litOn && d.lit == sym {
			style = style.Background(color).Foreground(lipgloss.Color("#000000")).Bold(true)
		}
		pads = append(pads, style.Render(fmt.Sprintf("%d %s", i+1, strings.ToUpper(symbolName(sym)))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pads...)
}

func (m model) renderProgress() string {
	d := m.display
	if !d.awaiting {
		return fmt.Sprintf("Showing %d/%d", d.shown, d.length)
	}
	var b strings.Builder
	b.WriteString("Input ")
	for i := 0; i < d.expectedLen; i++ {
		if i < len(d.input) {
			b.WriteString(" ●")
		} else {
			b.WriteString(" ○")
		}
	}
	return b.String()
}

func (m model) renderScores() string {
	var b strings.Builder
	if len(m.leaderboard) == 0 {
		b.WriteString("(no scores yet)")
	}
	for i, e := range m.leaderboard {
		fmt.Fprintf(&b, "%2d. %-24s %10s  level %-3d %s\n",
			i+1, e.PlayerName, m.printer.Sprintf("%d", e.Score), e.Level, e.Date.Local().Format("2006-01-02"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("LEADERBOARD"),
		"",
		entryStyle.Render(b.String()),
		"",
		helpStyle.Render("esc: back  n: new game  q: quit"),
	)
}

func ratio(value, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return min(max(value/limit, 0), 1)
}

// Run starts the game UI and blocks until the player quits.
func Run(eng *engine.Engine, scores models.ScoreBoard, playerName string, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(eng, scores, playerName, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
