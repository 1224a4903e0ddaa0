package tui

import (
	"fmt"
	"time"

	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/models"
)

// display is the screen state, fed by engine events.
type display struct {
	started bool
	lit     models.Symbol
	litOn   bool
	shown   int
	length  int
	rule    string

	awaiting    bool
	input       models.Sequence
	expectedLen int
	remaining   time.Duration
	limit       time.Duration

	score       int
	level       int
	resource    float64
	resourceCap float64
	danger      bool
	paused      bool

	status string
	over   *engine.GameOverPayload
}

func newDisplay() *display {
	return &display{status: "Press enter to start"}
}

func (d *display) HandleEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventGameStarted:
		*d = display{started: true, level: 1}
	case engine.EventSequenceGenerated:
		seq, _ := ev.Payload.(models.Sequence)
		d.length = len(seq)
		d.shown = 0
		d.input = nil
		d.awaiting = false
		d.status = "Watch closely..."
	case engine.EventModifierSelected:
		if p, ok := ev.Payload.(engine.ModifierPayload); ok {
			d.rule = engine.Describe(p.Modifier, symbolName)
		}
	case engine.EventSymbolRevealed:
		if p, ok := ev.Payload.(engine.SymbolPayload); ok {
			d.lit, d.litOn = p.Symbol, true
			d.shown = p.Index + 1
		}
	case engine.EventSymbolConcealed:
		d.litOn = false
	case engine.EventSequenceHidden:
		d.litOn = false
	case engine.EventPlayerTurnStarted:
		if p, ok := ev.Payload.(engine.TurnPayload); ok {
			d.awaiting = true
			d.expectedLen = p.ExpectedLength
			d.limit, d.remaining = p.TimeLimit, p.TimeLimit
			d.status = "Your turn!"
		}
	case engine.EventSymbolPressed:
		if p, ok := ev.Payload.(engine.SymbolPayload); ok {
			d.input = append(d.input, p.Symbol)
		}
	case engine.EventRoundTimerUpdated:
		if p, ok := ev.Payload.(engine.TimerPayload); ok {
			d.remaining, d.limit = p.Remaining, p.Limit
		}
	case engine.EventRoundResolved:
		if p, ok := ev.Payload.(engine.RoundResolvedPayload); ok {
			d.awaiting = false
			switch {
			case p.Success:
				d.status = "Correct!"
			case p.TimedOut:
				d.status = "Time's up! It was " + sequenceLabel(p.Expected)
			default:
				d.status = "Wrong! It was " + sequenceLabel(p.Expected)
			}
		}
	case engine.EventScoreChanged:
		d.score, _ = ev.Payload.(int)
	case engine.EventLevelChanged:
		d.level, _ = ev.Payload.(int)
	case engine.EventResourceChanged:
		if p, ok := ev.Payload.(engine.ResourcePayload); ok {
			d.resource, d.resourceCap = p.Resource, p.Cap
		}
	case engine.EventDangerChanged:
		d.danger, _ = ev.Payload.(bool)
	case engine.EventPausedChanged:
		d.paused, _ = ev.Payload.(bool)
	case engine.EventGameOver:
		if p, ok := ev.Payload.(engine.GameOverPayload); ok {
			d.over = &p
			d.awaiting = false
			d.litOn = false
			d.status = "BOOM!"
		}
	}
}

var symbolNames = [...]string{"green", "red", "blue", "yellow"}

func symbolName(s models.Symbol) string {
	if s >= 0 && int(s) < len(symbolNames) {
		return symbolNames[s]
	}
	return fmt.Sprintf("#%d", int(s)+1)
}

func sequenceLabel(seq models.Sequence) string {
	if len(seq) == 0 {
		return "nothing"
	}
	label := ""
	for i, s := range seq {
		if i > 0 {
			label += " "
		}
		label += symbolName(s)
	}
	return label
}
