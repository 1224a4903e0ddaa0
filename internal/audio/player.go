// Package audio plays the game's tones in response to engine events.
package audio

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tatianab/memory-bomb/internal/engine"
)

const alarmGap = 250 * time.Millisecond

// Player maps engine events onto sounds. Until Init succeeds every event is
// ignored, so a machine without an audio device plays silently.
type Player struct {
	mu     sync.Mutex
	logger *log.Logger
	rate   beep.SampleRate
	mixer  *beep.Mixer
	alarm  *beep.Ctrl

	enabled bool
	// live is set once the speaker owns the mixer.
	live   bool
	danger bool
	paused bool
}

// NewPlayer returns a disabled player; call Init to open the speaker.
func NewPlayer(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{
		logger: logger,
		rate:   sampleRate,
		mixer:  &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		p.logger.Printf("audio: disabled: %v", err)
		return err
	}
	speaker.Play(p.mixer)
	p.enabled = true
	p.live = true
	return nil
}

// Close silences everything and disables the player.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}
	p.withMixer(func() {
		p.mixer.Clear()
		p.alarm = nil
	})
	p.enabled = false
}

// Active is the number of streamers currently mixed.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int
	p.withMixer(func() { n = p.mixer.Len() })
	return n
}

// Alarming reports whether the danger alarm is audible.
func (p *Player) Alarming() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	var on bool
	p.withMixer(func() { on = p.alarm != nil && !p.alarm.Paused })
	return on
}

func (p *Player) HandleEvent(ev engine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}

	switch ev.Type {
	case engine.EventSymbolRevealed, engine.EventSymbolPressed:
		if sp, ok := ev.Payload.(engine.SymbolPayload); ok {
			p.play(SymbolCue(sp.Symbol))
		}
	case engine.EventRoundResolved:
		if rp, ok := ev.Payload.(engine.RoundResolvedPayload); ok {
			if rp.Success {
				p.play(CueCorrect)
			} else {
				p.play(CueIncorrect)
			}
		}
	case engine.EventGameOver:
		p.play(CueGameOver)
	case engine.EventDangerChanged:
		if on, ok := ev.Payload.(bool); ok {
			p.danger = on
			p.updateAlarm()
		}
	case engine.EventPausedChanged:
		if on, ok := ev.Payload.(bool); ok {
			p.paused = on
			p.updateAlarm()
		}
	case engine.EventGameStarted:
		p.danger, p.paused = false, false
		p.updateAlarm()
	}
}

func (p *Player) play(c Cue) {
	s := c.Streamer(p.rate)
	p.withMixer(func() { p.mixer.Add(s) })
}

func (p *Player) updateAlarm() {
	want := p.danger && !p.paused
	p.withMixer(func() {
		if p.alarm == nil {
			if !want {
				return
			}
			p.alarm = &beep.Ctrl{Streamer: &repeat{next: p.alarmCycle}}
			p.mixer.Add(p.alarm)
		}
		p.alarm.Paused = !want
	})
}

func (p *Player) alarmCycle() beep.Streamer {
	return beep.Seq(CueAlarm.Streamer(p.rate), beep.Silence(p.rate.N(alarmGap)))
}

// withMixer runs f while the speaker is not reading the mixer.
func (p *Player) withMixer(f func()) {
	if p.live {
		speaker.Lock()
		defer speaker.Unlock()
	}
	f()
}
