package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tatianab/memory-bomb/internal/models"
)

// Modifier names as they appear in tuning files.
const (
	IdentityName           = "identity"
	ReverseName            = "reverse"
	EvenPositionsName      = "even_positions"
	OddPositionsName       = "odd_positions"
	NoImmediateRepeatsName = "no_immediate_repeats"
	DoubleName             = "double"
	SubsetOnlyName         = "subset_only"
)

// Modifier is a rule that redefines which response to the revealed sequence is correct.
// The set of variants is closed: every variant must implement expect, so a new
// modifier cannot be added without defining its expected response.
type Modifier interface {
	Name() string
	expect(seq models.Sequence) models.Sequence
}

type (
	// Identity expects the sequence as shown.
	Identity struct{}
	// Reverse expects the sequence back to front.
	Reverse struct{}
	// EvenPositions expects the symbols at 1-indexed positions 2, 4, 6...
	EvenPositions struct{}
	// OddPositions expects the symbols at 1-indexed positions 1, 3, 5...
	OddPositions struct{}
	// NoImmediateRepeats expects runs of the same symbol collapsed to one.
	NoImmediateRepeats struct{}
	// Double expects every symbol twice in a row.
	Double struct{}
	// SubsetOnly expects only the symbols in Targets, in their original order.
	SubsetOnly struct {
		Targets [2]models.Symbol
	}
)

func (Identity) Name() string           { return IdentityName }
func (Reverse) Name() string            { return ReverseName }
func (EvenPositions) Name() string      { return EvenPositionsName }
func (OddPositions) Name() string       { return OddPositionsName }
func (NoImmediateRepeats) Name() string { return NoImmediateRepeatsName }
func (Double) Name() string             { return DoubleName }
func (SubsetOnly) Name() string         { return SubsetOnlyName }

// Contains reports whether sym is one of the targets.
func (m SubsetOnly) Contains(sym models.Symbol) bool {
	return sym == m.Targets[0] || sym == m.Targets[1]
}

// Describe returns a player-facing instruction for m. name renders a symbol.
func Describe(m Modifier, name func(models.Symbol) string) string {
	switch m := m.(type) {
	case Identity:
		return "Repeat the sequence as shown"
	case Reverse:
		return "Repeat the sequence in reverse"
	case EvenPositions:
		return "Only the symbols at even positions (2nd, 4th, ...)"
	case OddPositions:
		return "Only the symbols at odd positions (1st, 3rd, ...)"
	case NoImmediateRepeats:
		return "Skip a symbol that repeats the one before it"
	case Double:
		return "Press every symbol twice"
	case SubsetOnly:
		return fmt.Sprintf("Only %s and %s, in order", name(m.Targets[0]), name(m.Targets[1]))
	}
	return m.Name()
}

var modifiersByName = map[string]Modifier{
	IdentityName:           Identity{},
	ReverseName:            Reverse{},
	EvenPositionsName:      EvenPositions{},
	OddPositionsName:       OddPositions{},
	NoImmediateRepeatsName: NoImmediateRepeats{},
	DoubleName:             Double{},
	SubsetOnlyName:         SubsetOnly{},
}

// ParseModifier returns the modifier registered under name. SubsetOnly comes back
// without targets; the selector fills them in per round.
func ParseModifier(name string) (Modifier, error) {
	m, ok := modifiersByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown modifier %q", name)
	}
	return m, nil
}

// ParseModifiers parses a modifier list and checks that the selector could use it.
func ParseModifiers(names []string) ([]Modifier, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one modifier is required")
	}
	mods := make([]Modifier, 0, len(names))
	for _, name := range names {
		m, err := ParseModifier(name)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	if len(withoutSubset(mods)) == 0 {
		return nil, fmt.Errorf("%s cannot be the only modifier", SubsetOnlyName)
	}
	return mods, nil
}

// Selector picks each round's modifier.
type Selector struct {
	supported []Modifier
	fallback  []Modifier
}

// NewSelector returns a selector drawing from supported. SubsetOnly may only be
// one of several options since it needs somewhere to fall back to.
func NewSelector(supported []Modifier) (*Selector, error) {
	fallback := withoutSubset(supported)
	if len(fallback) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one other modifier", ErrInvalidTuning, SubsetOnlyName)
	}
	return &Selector{
		supported: slices.Clone(supported),
		fallback:  fallback,
	}, nil
}

// Select draws a modifier for seq. A SubsetOnly draw on a sequence with fewer than
// two distinct symbols is redrawn once from the remaining modifiers; otherwise two
// of the distinct symbols are picked as targets.
func (s *Selector) Select(seq models.Sequence, r Rand) Modifier {
	m := s.supported[r.IntN(len(s.supported))]
	if _, ok := m.(SubsetOnly); !ok {
		return m
	}

	distinct := seq.Distinct()
	if len(distinct) < 2 {
		return s.fallback[r.IntN(len(s.fallback))]
	}

	i := r.IntN(len(distinct))
	j := r.IntN(len(distinct) - 1)
	if j >= i {
		j++
	}
	a, b := distinct[i], distinct[j]
	if b < a {
		a, b = b, a
	}
	return SubsetOnly{Targets: [2]models.Symbol{a, b}}
}

func withoutSubset(mods []Modifier) []Modifier {
	var out []Modifier
	for _, m := range mods {
		if _, ok := m.(SubsetOnly); !ok {
			out = append(out, m)
		}
	}
	return out
}
