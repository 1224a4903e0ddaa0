package engine

import "github.com/tatianab/memory-bomb/internal/models"

// Resolve returns the exact response that counts as correct for seq under m.
// The result never aliases seq.
func Resolve(seq models.Sequence, m Modifier) models.Sequence {
	return m.expect(seq)
}

func (Identity) expect(seq models.Sequence) models.Sequence {
	return append(models.Sequence{}, seq...)
}

func (Reverse) expect(seq models.Sequence) models.Sequence {
	out := make(models.Sequence, len(seq))
	for i, sym := range seq {
		out[len(seq)-1-i] = sym
	}
	return out
}

func (EvenPositions) expect(seq models.Sequence) models.Sequence {
	return everyOther(seq, 1)
}

func (OddPositions) expect(seq models.Sequence) models.Sequence {
	return everyOther(seq, 0)
}

func (NoImmediateRepeats) expect(seq models.Sequence) models.Sequence {
	out := models.Sequence{}
	for i, sym := range seq {
		if i > 0 && sym == out[len(out)-1] {
			continue
		}
		out = append(out, sym)
	}
	return out
}

func (Double) expect(seq models.Sequence) models.Sequence {
	out := make(models.Sequence, 0, 2*len(seq))
	for _, sym := range seq {
		out = append(out, sym, sym)
	}
	return out
}

func (m SubsetOnly) expect(seq models.Sequence) models.Sequence {
	out := models.Sequence{}
	for _, sym := range seq {
		if m.Contains(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// everyOther keeps the symbols at 0-indexed positions start, start+2, ...
func everyOther(seq models.Sequence, start int) models.Sequence {
	out := models.Sequence{}
	for i := start; i < len(seq); i += 2 {
		out = append(out, seq[i])
	}
	return out
}
