package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/tatianab/memory-bomb/internal/models"
)

const (
	sampleRate = beep.SampleRate(44100)

	fadeDuration = 10 * time.Millisecond
	amplitude    = 0.5

	symbolToneDuration = 300 * time.Millisecond
)

// Cue is a fixed game sound.
type Cue struct {
	Freq     float64
	Duration time.Duration
}

var (
	CueCorrect   = Cue{Freq: 600, Duration: 200 * time.Millisecond}
	CueIncorrect = Cue{Freq: 200, Duration: 500 * time.Millisecond}
	CueGameOver  = Cue{Freq: 150, Duration: time.Second}
	CueAlarm     = Cue{Freq: 800, Duration: 500 * time.Millisecond}
)

// C4, E4, G4, C5
var symbolFreqs = [...]float64{261.63, 329.63, 392.00, 523.25}

// SymbolCue returns the tone for a symbol. Symbols past the base scale
// repeat it an octave higher per wrap.
func SymbolCue(s models.Symbol) Cue {
	n := int(s)
	if n < 0 {
		n = 0
	}
	octave := n / len(symbolFreqs)
	freq := symbolFreqs[n%len(symbolFreqs)] * math.Pow(2, float64(octave))
	return Cue{Freq: freq, Duration: symbolToneDuration}
}

// tone is a sine wave with linear fades at both ends.
type tone struct {
	freq  float64
	phase float64
	rate  beep.SampleRate
	total int
	fade  int
	pos   int
}

func newTone(freq float64, duration time.Duration, rate beep.SampleRate) *tone {
	total := rate.N(duration)
	fade := rate.N(fadeDuration)
	if fade*2 > total {
		fade = total / 2
	}
	return &tone{freq: freq, rate: rate, total: total, fade: fade}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, false
		}

		vol := 1.0
		if t.fade > 0 {
			if t.pos < t.fade {
				vol = float64(t.pos) / float64(t.fade)
			}
			if tail := t.total - t.pos; tail < t.fade {
				vol = float64(tail) / float64(t.fade)
			}
		}

		val := vol * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Streamer renders the cue at the shared output amplitude.
func (c Cue) Streamer(rate beep.SampleRate) beep.Streamer {
	return &effects.Volume{
		Streamer: newTone(c.Freq, c.Duration, rate),
		Base:     2,
		Volume:   math.Log2(amplitude),
	}
}

// repeat plays a fresh streamer from next each time the previous one drains.
// It never ends on its own.
type repeat struct {
	next func() beep.Streamer
	cur  beep.Streamer
}

func (r *repeat) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		fresh := r.cur == nil
		if fresh {
			r.cur = r.next()
		}
		sn, sok := r.cur.Stream(samples[n:])
		n += sn
		if !sok {
			r.cur = nil
			if fresh && sn == 0 {
				break
			}
		}
	}
	return n, true
}

func (r *repeat) Err() error { return nil }
