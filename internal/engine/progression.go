package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidTuning is returned when a Tuning cannot drive a game.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every constant of the difficulty curve and round pacing.
// Durations and resource amounts are expressed in seconds.
type Tuning struct {
	AlphabetSize int `yaml:"alphabet_size"`

	BaseSequenceLength  int `yaml:"base_sequence_length"`
	LevelsPerLengthStep int `yaml:"levels_per_length_step"`
	MaxSequenceLength   int `yaml:"max_sequence_length"`

	BaseSymbolDelay      float64 `yaml:"base_symbol_delay"`
	SymbolDelayDecrement float64 `yaml:"symbol_delay_decrement"`
	MinSymbolDelay       float64 `yaml:"min_symbol_delay"`

	BaseTimeReward      float64 `yaml:"base_time_reward"`
	TimeRewardDecrement float64 `yaml:"time_reward_decrement"`
	MinTimeReward       float64 `yaml:"min_time_reward"`

	// A zero increment gives a fixed penalty.
	TimePenaltyBase      float64 `yaml:"time_penalty_base"`
	TimePenaltyIncrement float64 `yaml:"time_penalty_increment"`

	BaseResourceCap      float64 `yaml:"base_resource_cap"`
	ResourceCapDecrement float64 `yaml:"resource_cap_decrement"`
	MinResourceCap       float64 `yaml:"min_resource_cap"`

	PointsPerLevel int `yaml:"points_per_level"`

	InitialResource float64 `yaml:"initial_resource"`
	DrainRate       float64 `yaml:"drain_rate"`
	DangerThreshold float64 `yaml:"danger_threshold"`

	RoundTimeLimit float64 `yaml:"round_time_limit"`
	RevealLeadIn   float64 `yaml:"reveal_lead_in"`
	RevealGap      float64 `yaml:"reveal_gap"`
	HideDelay      float64 `yaml:"hide_delay"`
	SuccessDelay   float64 `yaml:"success_delay"`
	FailureDelay   float64 `yaml:"failure_delay"`

	Modifiers []string `yaml:"modifiers"`
}

// DefaultTuning returns the stock difficulty curve.
func DefaultTuning() Tuning {
	return Tuning{
		AlphabetSize: 4,

		BaseSequenceLength:  3,
		LevelsPerLengthStep: 3,
		MaxSequenceLength:   10,

		BaseSymbolDelay:      0.5,
		SymbolDelayDecrement: 0.02,
		MinSymbolDelay:       0.2,

		BaseTimeReward:      8,
		TimeRewardDecrement: 0.3,
		MinTimeReward:       3,

		TimePenaltyBase:      3,
		TimePenaltyIncrement: 0,

		BaseResourceCap:      20,
		ResourceCapDecrement: 0.3,
		MinResourceCap:       15,

		PointsPerLevel: 100,

		InitialResource: 15,
		DrainRate:       1,
		DangerThreshold: 3,

		RoundTimeLimit: 10,
		RevealLeadIn:   0.5,
		RevealGap:      0.1,
		HideDelay:      0.3,
		SuccessDelay:   1.5,
		FailureDelay:   2,

		Modifiers: []string{
			ReverseName,
			EvenPositionsName,
			OddPositionsName,
			NoImmediateRepeatsName,
			DoubleName,
			SubsetOnlyName,
		},
	}
}

// Validate reports every problem with t at once.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(t.AlphabetSize >= 1, "alphabet_size must be at least 1, got %d", t.AlphabetSize)
	check(t.BaseSequenceLength >= 1, "base_sequence_length must be at least 1, got %d", t.BaseSequenceLength)
	check(t.LevelsPerLengthStep >= 1, "levels_per_length_step must be at least 1, got %d", t.LevelsPerLengthStep)
	check(t.MaxSequenceLength >= t.BaseSequenceLength, "max_sequence_length %d is below base_sequence_length %d", t.MaxSequenceLength, t.BaseSequenceLength)
	check(t.MinSymbolDelay >= 0 && t.BaseSymbolDelay >= 0, "symbol delays must not be negative")
	check(t.MinTimeReward >= 0, "min_time_reward must not be negative")
	check(t.TimePenaltyBase >= 0 && t.TimePenaltyIncrement >= 0, "time penalty must not be negative")
	check(t.MinResourceCap > 0, "min_resource_cap must be positive, got %g", t.MinResourceCap)
	check(t.PointsPerLevel >= 0, "points_per_level must not be negative")
	check(t.InitialResource > 0, "initial_resource must be positive, got %g", t.InitialResource)
	check(t.DrainRate >= 0, "drain_rate must not be negative")
	check(t.RoundTimeLimit > 0, "round_time_limit must be positive, got %g", t.RoundTimeLimit)
	check(t.RevealLeadIn >= 0 && t.RevealGap >= 0 && t.HideDelay >= 0, "reveal pacing must not be negative")
	check(t.SuccessDelay >= 0 && t.FailureDelay >= 0, "next-round delays must not be negative")

	if _, err := ParseModifiers(t.Modifiers); err != nil {
		errs = append(errs, err)
	}
	// A one-symbol sequence has no second position to answer with.
	if t.BaseSequenceLength < 2 && slices.Contains(t.Modifiers, EvenPositionsName) {
		errs = append(errs, fmt.Errorf("%s needs base_sequence_length of at least 2, got %d", EvenPositionsName, t.BaseSequenceLength))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTuning, errors.Join(errs...))
	}
	return nil
}

// Params are the round parameters in effect at one level.
type Params struct {
	Level          int
	SequenceLength int
	SymbolDelay    time.Duration
	TimeReward     float64
	TimePenalty    float64
	ResourceCap    float64
	Points         int
}

// Progression maps a level to its round parameters. It holds no state besides the tuning.
type Progression struct {
	t Tuning
}

// NewProgression returns the progression model for t.
func NewProgression(t Tuning) Progression {
	return Progression{t: t}
}

// At returns the parameters for level.
func (p Progression) At(level int) Params {
	return Params{
		Level:          level,
		SequenceLength: p.SequenceLength(level),
		SymbolDelay:    p.SymbolDelay(level),
		TimeReward:     p.TimeReward(level),
		TimePenalty:    p.TimePenalty(level),
		ResourceCap:    p.ResourceCap(level),
		Points:         p.PointsForSuccess(level),
	}
}

func (p Progression) SequenceLength(level int) int {
	return min(p.t.MaxSequenceLength, p.t.BaseSequenceLength+level/p.t.LevelsPerLengthStep)
}

func (p Progression) SymbolDelay(level int) time.Duration {
	return seconds(max(p.t.MinSymbolDelay, p.t.BaseSymbolDelay-float64(level)*p.t.SymbolDelayDecrement))
}

func (p Progression) TimeReward(level int) float64 {
	return max(p.t.MinTimeReward, p.t.BaseTimeReward-float64(level)*p.t.TimeRewardDecrement)
}

func (p Progression) TimePenalty(level int) float64 {
	return p.t.TimePenaltyBase + float64(level)*p.t.TimePenaltyIncrement
}

func (p Progression) ResourceCap(level int) float64 {
	return max(p.t.MinResourceCap, p.t.BaseResourceCap-float64(level)*p.t.ResourceCapDecrement)
}

func (p Progression) PointsForSuccess(level int) int {
	return p.t.PointsPerLevel * level
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
