package engine

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/memory-bomb/internal/models"
)

// Phase is where a round is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRevealing
	PhaseAwaitingInput
	PhaseEvaluating
	PhaseResolved
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRevealing:
		return "revealing"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseResolved:
		return "resolved"
	case PhaseGameOver:
		return "game_over"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// RoundState is one round's challenge and the player's progress through it.
type RoundState struct {
	Number   int
	Params   Params
	Sequence models.Sequence
	Modifier Modifier
	Expected models.Sequence
	Input    models.Sequence
	Phase    Phase
}

// ProgressionState is the game-wide state that survives between rounds.
type ProgressionState struct {
	GameID      string
	Level       int
	Score       int
	Resource    float64
	ResourceCap float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source used for sequences and modifiers.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rand = r }
}

// WithLogger sets the logger for round diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithIDGenerator replaces the game ID generator.
func WithIDGenerator(next func() string) Option {
	return func(e *Engine) { e.newID = next }
}

// Engine runs the rounds of a game. It is driven entirely by its commands:
// StartNewGame, ButtonPressed, SetPaused and AdvanceTime. It is not safe for
// concurrent use; one goroutine owns it. A command issued by a listener runs
// after the events being delivered have reached every listener.
type Engine struct {
	tuning      Tuning
	progression Progression
	selector    *Selector
	rand        Rand
	clock       *ResourceClock
	sched       *Scheduler
	events      *Router
	logger      *log.Logger
	newID       func() string

	started bool
	paused  bool
	danger  bool
	gameID  string
	level   int
	score   int
	round   RoundState
	timeout TaskID

	// Commands issued by listeners, run after the current flush.
	deferred []func()
}

// NewEngine validates t and returns an engine waiting for StartNewGame.
func NewEngine(t Tuning, opts ...Option) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	mods, err := ParseModifiers(t.Modifiers)
	if err != nil {
		return nil, err
	}
	selector, err := NewSelector(mods)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		tuning:      t,
		progression: NewProgression(t),
		selector:    selector,
		rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		clock:       NewResourceClock(t.DrainRate),
		sched:       NewScheduler(),
		events:      NewRouter(),
		logger:      log.New(io.Discard, "", 0),
		newID:       uuid.NewString,
		level:       1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Subscribe registers a listener; see Router.Subscribe.
func (e *Engine) Subscribe(l Listener, types ...EventType) {
	e.events.Subscribe(l, types...)
}

func (e *Engine) Tuning() Tuning           { return e.tuning }
func (e *Engine) Progression() Progression { return e.progression }
func (e *Engine) Phase() Phase             { return e.round.Phase }
func (e *Engine) Paused() bool             { return e.paused }
func (e *Engine) Started() bool            { return e.started }
func (e *Engine) GameOver() bool           { return e.round.Phase == PhaseGameOver }
func (e *Engine) Generation() uint64       { return e.sched.Generation() }
func (e *Engine) PendingCallbacks() int    { return e.sched.Pending() }

// Progress returns a snapshot of the game-wide state.
func (e *Engine) Progress() ProgressionState {
	return ProgressionState{
		GameID:      e.gameID,
		Level:       e.level,
		Score:       e.score,
		Resource:    e.clock.Resource(),
		ResourceCap: e.clock.Cap(),
	}
}

// Round returns a copy of the current round.
func (e *Engine) Round() RoundState {
	r := e.round
	r.Sequence = r.Sequence.Clone()
	r.Expected = r.Expected.Clone()
	r.Input = r.Input.Clone()
	return r
}

// RoundTimeRemaining returns the input time left, or false outside AwaitingInput.
func (e *Engine) RoundTimeRemaining() (time.Duration, bool) {
	if e.round.Phase != PhaseAwaitingInput {
		return 0, false
	}
	return e.sched.Remaining(e.timeout)
}

// StartNewGame cancels everything pending from the previous game, resets
// progression and starts round one.
func (e *Engine) StartNewGame() {
	if e.later(e.StartNewGame) {
		return
	}
	defer e.flush()

	e.sched.Reset()
	e.timeout = 0
	if e.paused {
		e.paused = false
		e.sched.SetPaused(false)
		e.events.Push(EventPausedChanged, false)
	}

	e.started = true
	e.danger = false
	e.gameID = e.newID()
	e.level = 1
	e.score = 0
	e.clock.Reset(e.tuning.InitialResource, e.progression.ResourceCap(e.level))
	e.round = RoundState{Phase: PhaseIdle}

	e.logger.Printf("game %s: started", e.gameID)
	e.events.Push(EventGameStarted, GameStartedPayload{GameID: e.gameID})
	e.events.Push(EventScoreChanged, e.score)
	e.events.Push(EventLevelChanged, e.level)
	e.pushResource()

	e.startRound()
}

// ButtonPressed records one input symbol. It is ignored unless the engine is
// awaiting input and unpaused, and for symbols outside the alphabet.
func (e *Engine) ButtonPressed(sym models.Symbol) {
	if e.later(func() { e.ButtonPressed(sym) }) {
		return
	}
	defer e.flush()

	if e.paused || e.round.Phase != PhaseAwaitingInput {
		return
	}
	if sym < 0 || int(sym) >= e.tuning.AlphabetSize {
		return
	}

	e.round.Input = append(e.round.Input, sym)
	e.events.Push(EventSymbolPressed, SymbolPayload{Index: len(e.round.Input) - 1, Symbol: sym})

	if len(e.round.Input) >= len(e.round.Expected) {
		e.sched.Cancel(e.timeout)
		e.evaluate(false)
	}
}

// SetPaused freezes or resumes the resource drain and every scheduled callback.
func (e *Engine) SetPaused(paused bool) {
	if e.later(func() { e.SetPaused(paused) }) {
		return
	}
	defer e.flush()

	if !e.started || e.GameOver() || e.paused == paused {
		return
	}
	e.paused = paused
	e.sched.SetPaused(paused)
	e.events.Push(EventPausedChanged, paused)
}

// AdvanceTime is the tick driver: it drains the resource clock and runs the
// scheduled callbacks that fall due within elapsed.
func (e *Engine) AdvanceTime(elapsed time.Duration) {
	if e.later(func() { e.AdvanceTime(elapsed) }) {
		return
	}
	defer e.flush()

	if !e.started || e.paused || elapsed <= 0 || e.GameOver() {
		return
	}

	exhausted := e.clock.Tick(elapsed)
	e.pushResource()
	if exhausted {
		e.endGame()
		return
	}

	e.sched.Advance(elapsed)

	if remaining, ok := e.RoundTimeRemaining(); ok {
		e.events.Push(EventRoundTimerUpdated, TimerPayload{
			Remaining: remaining,
			Limit:     seconds(e.tuning.RoundTimeLimit),
		})
	}
}

func (e *Engine) startRound() {
	if e.GameOver() {
		return
	}

	params := e.progression.At(e.level)
	e.clock.SetCap(params.ResourceCap)

	seq := GenerateSequence(e.rand, params.SequenceLength, e.tuning.AlphabetSize)
	mod := e.selector.Select(seq, e.rand)
	expected := Resolve(seq, mod)

	e.round = RoundState{
		Number:   e.round.Number + 1,
		Params:   params,
		Sequence: seq,
		Modifier: mod,
		Expected: expected,
		Input:    models.Sequence{},
		Phase:    PhaseRevealing,
	}
	e.timeout = 0

	e.logger.Printf("game %s: round %d level %d modifier %s sequence %v expected %v",
		e.gameID, e.round.Number, e.level, mod.Name(), seq, expected)

	modPayload := ModifierPayload{Modifier: mod}
	if subset, ok := mod.(SubsetOnly); ok {
		modPayload.Targets = subset.Targets[:]
	}
	e.events.Push(EventSequenceGenerated, seq.Clone())
	e.events.Push(EventModifierSelected, modPayload)
	e.pushResource()

	e.sched.After(seconds(e.tuning.RevealLeadIn), func() { e.revealSymbol(0) })
}

func (e *Engine) revealSymbol(i int) {
	sym := e.round.Sequence[i]
	e.events.Push(EventSymbolRevealed, SymbolPayload{Index: i, Symbol: sym})

	e.sched.After(e.round.Params.SymbolDelay, func() {
		e.events.Push(EventSymbolConcealed, SymbolPayload{Index: i, Symbol: sym})
		if i+1 < len(e.round.Sequence) {
			e.sched.After(seconds(e.tuning.RevealGap), func() { e.revealSymbol(i + 1) })
			return
		}
		e.sched.After(seconds(e.tuning.RevealGap+e.tuning.HideDelay), e.beginTurn)
	})
}

func (e *Engine) beginTurn() {
	limit := seconds(e.tuning.RoundTimeLimit)
	e.events.Push(EventSequenceHidden, nil)

	e.round.Phase = PhaseAwaitingInput
	e.timeout = e.sched.After(limit, func() { e.evaluate(true) })
	e.events.Push(EventPlayerTurnStarted, TurnPayload{
		ExpectedLength: len(e.round.Expected),
		TimeLimit:      limit,
	})
}

func (e *Engine) evaluate(timedOut bool) {
	if e.round.Phase != PhaseAwaitingInput {
		return
	}
	e.timeout = 0
	e.round.Phase = PhaseEvaluating
	success := !timedOut && e.round.Input.Equal(e.round.Expected)
	e.round.Phase = PhaseResolved

	params := e.round.Params
	e.logger.Printf("game %s: round %d resolved success=%t timed_out=%t input %v expected %v",
		e.gameID, e.round.Number, success, timedOut, e.round.Input, e.round.Expected)
	e.events.Push(EventRoundResolved, RoundResolvedPayload{
		Success:  success,
		TimedOut: timedOut,
		Level:    params.Level,
		Expected: e.round.Expected.Clone(),
		Input:    e.round.Input.Clone(),
	})

	if success {
		e.clock.Add(params.TimeReward)
		e.score += params.Points
		e.level++
		e.events.Push(EventScoreChanged, e.score)
		e.events.Push(EventLevelChanged, e.level)
		e.pushResource()
		e.sched.After(seconds(e.tuning.SuccessDelay), e.nextRound)
		return
	}

	exhausted := e.clock.Subtract(params.TimePenalty)
	e.pushResource()
	if exhausted {
		e.endGame()
		return
	}
	e.sched.After(seconds(e.tuning.FailureDelay), e.nextRound)
}

func (e *Engine) nextRound() {
	e.round.Phase = PhaseIdle
	e.startRound()
}

func (e *Engine) endGame() {
	if e.GameOver() {
		return
	}
	e.sched.Reset()
	e.timeout = 0
	e.round.Phase = PhaseGameOver
	if e.danger {
		e.danger = false
		e.events.Push(EventDangerChanged, false)
	}
	e.logger.Printf("game %s: over at level %d with score %d", e.gameID, e.level, e.score)
	e.events.Push(EventGameOver, GameOverPayload{GameID: e.gameID, Score: e.score, Level: e.level})
}

// later queues cmd when a listener issues it mid-flush. It reports whether cmd
// was queued.
func (e *Engine) later(cmd func()) bool {
	if !e.events.Dispatching() {
		return false
	}
	e.deferred = append(e.deferred, cmd)
	return true
}

// flush delivers queued events, then runs the commands listeners issued during
// delivery, in order.
func (e *Engine) flush() {
	e.events.Flush()
	for len(e.deferred) > 0 {
		cmd := e.deferred[0]
		e.deferred = e.deferred[1:]
		cmd()
	}
}

func (e *Engine) pushResource() {
	e.events.Push(EventResourceChanged, ResourcePayload{
		Resource: e.clock.Resource(),
		Cap:      e.clock.Cap(),
	})
	if danger := e.clock.Resource() < e.tuning.DangerThreshold; danger != e.danger {
		e.danger = danger
		e.events.Push(EventDangerChanged, danger)
	}
}
