package engine

import (
	"testing"
	"time"

	"github.com/tatianab/memory-bomb/internal/models"
)

const step = 10 * time.Millisecond

// scriptedRand replays fixed draws, then returns 0 forever.
type scriptedRand struct {
	t      *testing.T
	values []int
	pos    int
}

func script(t *testing.T, values ...int) *scriptedRand {
	return &scriptedRand{t: t, values: values}
}

func (r *scriptedRand) IntN(n int) int {
	if r.pos >= len(r.values) {
		return 0
	}
	v := r.values[r.pos]
	r.pos++
	if v < 0 || v >= n {
		r.t.Fatalf("scripted draw %d out of range [0, %d)", v, n)
	}
	return v
}

type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(t EventType) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

// testTuning fixes the sequence length at four and stops the drain so resource
// arithmetic is exact.
func testTuning(mods ...string) Tuning {
	t := DefaultTuning()
	t.BaseSequenceLength = 4
	t.LevelsPerLengthStep = 100
	t.DrainRate = 0
	t.Modifiers = mods
	return t
}

func newTestEngine(t *testing.T, tuning Tuning, r Rand) (*Engine, *recorder) {
	t.Helper()
	e, err := NewEngine(tuning, WithRand(r), WithIDGenerator(func() string { return "game-1" }))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	rec := &recorder{}
	e.Subscribe(rec)
	return e, rec
}

func advanceUntil(t *testing.T, e *Engine, phase Phase, limit time.Duration) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed < limit && e.Phase() != phase; elapsed += step {
		e.AdvanceTime(step)
	}
	if e.Phase() != phase {
		t.Fatalf("Expected phase %s within %v, got %s", phase, limit, e.Phase())
	}
}

func advanceFor(e *Engine, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		e.AdvanceTime(step)
	}
}

func press(e *Engine, syms ...int) {
	for _, s := range syms {
		e.ButtonPressed(models.Symbol(s))
	}
}

func seq(syms ...int) models.Sequence {
	out := make(models.Sequence, len(syms))
	for i, s := range syms {
		out[i] = models.Symbol(s)
	}
	return out
}
