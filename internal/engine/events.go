package engine

import (
	"time"

	"github.com/tatianab/memory-bomb/internal/models"
)

// EventType identifies an outbound notification from the engine.
type EventType int

const (
	// EventGameStarted fires when a new game resets progression. Payload: GameStartedPayload.
	EventGameStarted EventType = iota
	// EventSequenceGenerated fires at round start. Payload: models.Sequence.
	EventSequenceGenerated
	// EventModifierSelected fires right after the sequence. Payload: ModifierPayload.
	EventModifierSelected
	// EventSymbolRevealed fires once per symbol while revealing. Payload: SymbolPayload.
	EventSymbolRevealed
	// EventSymbolConcealed fires when a revealed symbol goes dark. Payload: SymbolPayload.
	EventSymbolConcealed
	// EventSequenceHidden fires after the hide pause. Payload: nil.
	EventSequenceHidden
	// EventPlayerTurnStarted opens input collection. Payload: TurnPayload.
	EventPlayerTurnStarted
	// EventSymbolPressed fires for every accepted input. Payload: SymbolPayload.
	EventSymbolPressed
	// EventRoundTimerUpdated fires every tick while awaiting input. Payload: TimerPayload.
	EventRoundTimerUpdated
	// EventRoundResolved carries the outcome of a round. Payload: RoundResolvedPayload.
	EventRoundResolved
	// EventScoreChanged payload: int.
	EventScoreChanged
	// EventResourceChanged payload: ResourcePayload.
	EventResourceChanged
	// EventLevelChanged payload: int.
	EventLevelChanged
	// EventDangerChanged fires when the resource crosses the danger threshold. Payload: bool.
	EventDangerChanged
	// EventPausedChanged payload: bool.
	EventPausedChanged
	// EventGameOver is terminal for the current game. Payload: GameOverPayload.
	EventGameOver
)

var eventNames = [...]string{
	EventGameStarted:       "game_started",
	EventSequenceGenerated: "sequence_generated",
	EventModifierSelected:  "modifier_selected",
	EventSymbolRevealed:    "symbol_revealed",
	EventSymbolConcealed:   "symbol_concealed",
	EventSequenceHidden:    "sequence_hidden",
	EventPlayerTurnStarted: "player_turn_started",
	EventSymbolPressed:     "symbol_pressed",
	EventRoundTimerUpdated: "round_timer_updated",
	EventRoundResolved:     "round_resolved",
	EventScoreChanged:      "score_changed",
	EventResourceChanged:   "resource_changed",
	EventLevelChanged:      "level_changed",
	EventDangerChanged:     "danger_changed",
	EventPausedChanged:     "paused_changed",
	EventGameOver:          "game_over",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is one notification with a type-specific payload.
type Event struct {
	Type    EventType
	Payload any
}

type GameStartedPayload struct {
	GameID string
}

type ModifierPayload struct {
	Modifier Modifier
	// Targets is set only for SubsetOnly.
	Targets []models.Symbol
}

type SymbolPayload struct {
	Index  int
	Symbol models.Symbol
}

type TurnPayload struct {
	ExpectedLength int
	TimeLimit      time.Duration
}

type TimerPayload struct {
	Remaining time.Duration
	Limit     time.Duration
}

type RoundResolvedPayload struct {
	Success  bool
	TimedOut bool
	Level    int
	Expected models.Sequence
	Input    models.Sequence
}

type ResourcePayload struct {
	Resource float64
	Cap      float64
}

type GameOverPayload struct {
	GameID string
	Score  int
	Level  int
}

// Listener receives engine events.
type Listener interface {
	HandleEvent(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

func (f ListenerFunc) HandleEvent(ev Event) { f(ev) }

type subscription struct {
	listener Listener
	types    map[EventType]bool
}

func (s subscription) wants(t EventType) bool {
	return s.types == nil || s.types[t]
}

// Router queues events and delivers them to listeners.
//
//   - Dispatch is single-threaded and synchronous
//   - Listeners are invoked in registration order
//   - Events are delivered FIFO; everything queued during a flush is delivered by that flush
//   - A listener that triggers a nested Flush only queues; the outer flush delivers
//
// Having no listeners is fine: events are simply dropped.
type Router struct {
	subs        []subscription
	queue       []Event
	dispatching bool
}

// NewRouter returns a router with no listeners.
func NewRouter() *Router {
	return &Router{}
}

// Subscribe registers l for the given types, or for every type when none are given.
func (r *Router) Subscribe(l Listener, types ...EventType) {
	sub := subscription{listener: l}
	if len(types) > 0 {
		sub.types = make(map[EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	r.subs = append(r.subs, sub)
}

// Push queues an event for the next flush.
func (r *Router) Push(t EventType, payload any) {
	r.queue = append(r.queue, Event{Type: t, Payload: payload})
}

// Pending returns the number of queued events.
func (r *Router) Pending() int { return len(r.queue) }

// Dispatching reports whether a flush is delivering events.
func (r *Router) Dispatching() bool { return r.dispatching }

// Flush delivers queued events until the queue is empty.
func (r *Router) Flush() {
	if r.dispatching {
		return
	}
	r.dispatching = true
	defer func() { r.dispatching = false }()

	for len(r.queue) > 0 {
		ev := r.queue[0]
		r.queue = r.queue[1:]
		for _, sub := range r.subs {
			if sub.wants(ev.Type) {
				sub.listener.HandleEvent(ev)
			}
		}
	}
	r.queue = nil
}
