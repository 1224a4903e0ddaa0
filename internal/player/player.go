// Package player provides automated players that answer engine rounds.
package player

import (
	"context"
	"fmt"
	"slices"

	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/models"
)

// Challenge is what a player sees of a round.
type Challenge struct {
	Level        int
	AlphabetSize int
	Sequence     models.Sequence
	Modifier     engine.Modifier
}

// ChallengeFrom captures the engine's current round.
func ChallengeFrom(eng *engine.Engine) Challenge {
	round := eng.Round()
	return Challenge{
		Level:        round.Params.Level,
		AlphabetSize: eng.Tuning().AlphabetSize,
		Sequence:     round.Sequence,
		Modifier:     round.Modifier,
	}
}

// Player answers a round with the symbols it would press.
type Player interface {
	Respond(ctx context.Context, c Challenge) (models.Sequence, error)
}

// Perfect always answers correctly.
type Perfect struct{}

func (Perfect) Respond(ctx context.Context, c Challenge) (models.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return engine.Resolve(c.Sequence, c.Modifier), nil
}

// Sloppy answers correctly except for ErrorPercent percent of rounds, where it
// gets one symbol wrong.
type Sloppy struct {
	ErrorPercent int
	Rand         engine.Rand
}

func (s Sloppy) Respond(ctx context.Context, c Challenge) (models.Sequence, error) {
	answer, err := Perfect{}.Respond(ctx, c)
	if err != nil {
		return nil, err
	}
	if s.Rand.IntN(100) >= s.ErrorPercent {
		return answer, nil
	}

	if len(answer) == 0 || c.AlphabetSize < 2 {
		// Nothing to swap; answer one symbol too many instead.
		return append(answer, 0), nil
	}
	answer = slices.Clone(answer)
	i := s.Rand.IntN(len(answer))
	shift := 1 + s.Rand.IntN(c.AlphabetSize-1)
	answer[i] = models.Symbol((int(answer[i]) + shift) % c.AlphabetSize)
	return answer, nil
}

// New returns the named player. Gemini players need a key and must be closed.
func New(ctx context.Context, name, apiKey string, r engine.Rand) (Player, error) {
	switch name {
	case "perfect":
		return Perfect{}, nil
	case "sloppy":
		return Sloppy{ErrorPercent: 25, Rand: r}, nil
	case "gemini":
		g, err := NewGemini(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown player %q", name)
}
